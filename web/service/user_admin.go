package service

import (
	"context"
	"strings"

	"github.com/AlvanCjh/paddock-panel/caching"
	"github.com/AlvanCjh/paddock-panel/paddock"
)

// FilterUsers keeps the members whose username contains the query,
// case-insensitively. An empty query returns the input unchanged.
func FilterUsers(users []paddock.User, query string) []paddock.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return users
	}
	filtered := make([]paddock.User, 0, len(users))
	for _, user := range users {
		if strings.Contains(strings.ToLower(user.Username), query) {
			filtered = append(filtered, user)
		}
	}
	return filtered
}

// UserAdminService serves the admin member registry.
type UserAdminService struct {
	auditService AuditLogService
}

// GetUsers returns the full member registry through a short TTL cache.
func (s *UserAdminService) GetUsers(ctx context.Context) ([]paddock.User, error) {
	if cached, ok := Memory().Get(caching.KeyRegistry); ok {
		if users, ok := cached.([]paddock.User); ok {
			return users, nil
		}
	}

	users, err := API().GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	Memory().Set(caching.KeyRegistry, users, caching.TTLRegistry)
	return users, nil
}

// IssueStrike issues one penalty point and re-fetches the registry so the
// caller renders the count the backend actually stored, not a local guess.
// Two admins striking concurrently both land; the refreshed registry shows
// the combined total.
func (s *UserAdminService) IssueStrike(ctx context.Context, userID int, adminEmail, ip, userAgent string) ([]paddock.User, error) {
	if err := API().IssueStrike(ctx, userID); err != nil {
		return nil, err
	}

	s.auditService.LogAction(adminEmail, "STRIKE", "user", userID, ip, userAgent, nil)

	Memory().Delete(caching.KeyRegistry)
	return s.GetUsers(ctx)
}
