package service

import (
	"context"

	"github.com/AlvanCjh/paddock-panel/paddock"
)

// Strike severity levels shown next to a member's penalty count.
const (
	StrikeNeutral  = "neutral"
	StrikeWarning  = "warning"
	StrikeCritical = "critical"
)

// StrikeLevel maps a penalty count to its display severity. Three strikes
// puts a member at the ban threshold.
func StrikeLevel(strikes int) string {
	switch {
	case strikes >= 3:
		return StrikeCritical
	case strikes >= 1:
		return StrikeWarning
	default:
		return StrikeNeutral
	}
}

// ProfileService serves the signed-in member's own profile.
type ProfileService struct{}

// GetProfile fetches the member's profile record from the community API.
// Profile data is never cached; the strike count must reflect admin actions
// immediately.
func (s *ProfileService) GetProfile(ctx context.Context, email string) (*paddock.Profile, error) {
	return API().GetProfile(ctx, email)
}

// UpdatePfp uploads a new profile picture and returns the stored image
// reference the session avatar should be updated to.
func (s *ProfileService) UpdatePfp(ctx context.Context, email string, image *paddock.FileUpload) (string, error) {
	return API().UploadPfp(ctx, email, image)
}
