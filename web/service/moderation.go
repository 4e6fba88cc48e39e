package service

import (
	"context"
	"sync"
	"time"

	"github.com/AlvanCjh/paddock-panel/caching"
	"github.com/AlvanCjh/paddock-panel/database"
	"github.com/AlvanCjh/paddock-panel/database/model"
	"github.com/AlvanCjh/paddock-panel/logger"
	"github.com/AlvanCjh/paddock-panel/paddock"
	"github.com/AlvanCjh/paddock-panel/util/common"

	"gorm.io/gorm/clause"
)

// ErrScanInFlight is returned when a scan is requested for a post that is
// already being scanned. Scans of different posts run concurrently.
var ErrScanInFlight = common.NewError("a scan for this post is already running")

// ModerationService drives the admin content workflow: AI scans, strikes
// and deletions, with every action audited.
type ModerationService struct {
	settingService SettingService
	auditService   AuditLogService
	tgbot          Tgbot

	// ids of posts with a scan in flight
	scanning sync.Map
}

// ScanStates computes the scan badge for each post in the feed using the
// configured skew. The map is keyed by post id; clean posts carry
// ScanStateClean.
func (s *ModerationService) ScanStates(posts []paddock.BlogPost) map[int]paddock.ScanState {
	skew, err := s.settingService.GetScanSkew()
	if err != nil {
		logger.Warning("read scan skew failed, using default:", err)
		skew = paddock.DefaultScanSkew
	}

	states := make(map[int]paddock.ScanState, len(posts))
	for _, post := range posts {
		states[int(post.Id)] = paddock.Staleness(post.UpdatedAt.Time, post.LastScanAt.Time, skew)
	}
	return states
}

// Scan runs one AI moderation scan over a post and stores the verdict. Only
// one scan per post may be in flight; a second request for the same id gets
// ErrScanInFlight while other posts scan freely. When the verdict is clean
// the cached feed is dropped so the next render shows the advanced
// last_scan_at instead of a locally guessed one.
func (s *ModerationService) Scan(ctx context.Context, post *paddock.BlogPost, adminEmail, ip, userAgent string) (*paddock.ModerationReport, error) {
	id := int(post.Id)
	if _, loaded := s.scanning.LoadOrStore(id, struct{}{}); loaded {
		return nil, ErrScanInFlight
	}
	defer s.scanning.Delete(id)

	report, err := API().CheckContent(ctx, post.ScanText(), id)
	if err != nil {
		s.auditService.LogAction(adminEmail, "SCAN", "blog", id, ip, userAgent, map[string]interface{}{
			"title": post.Title,
			"error": err.Error(),
		})
		return nil, err
	}

	if err := s.saveVerdict(id, report); err != nil {
		logger.Warning("persist scan verdict failed:", err)
	}

	s.auditService.LogAction(adminEmail, "SCAN", "blog", id, ip, userAgent, map[string]interface{}{
		"title":    post.Title,
		"flagged":  report.Flagged,
		"category": report.Category,
	})

	if report.Flagged {
		s.tgbot.NotifyFlagged(post, report)
	} else {
		Memory().Delete(caching.KeyFeed)
	}
	return report, nil
}

// Scanning reports whether a scan for the given post is currently running.
func (s *ModerationService) Scanning(blogID int) bool {
	_, ok := s.scanning.Load(blogID)
	return ok
}

// DeletePost permanently removes a post, prunes its stored verdict and
// drops the cached feed.
func (s *ModerationService) DeletePost(ctx context.Context, blogID int, adminEmail, ip, userAgent string) error {
	if err := API().DeleteBlog(ctx, blogID); err != nil {
		return err
	}

	db := database.GetDB()
	if err := db.Where("blog_id = ?", blogID).Delete(&model.ScanVerdict{}).Error; err != nil {
		logger.Warning("prune scan verdict failed:", err)
	}

	s.auditService.LogAction(adminEmail, "DELETE", "blog", blogID, ip, userAgent, nil)

	Memory().Delete(caching.KeyFeed)
	return nil
}

// GetVerdicts returns the stored verdicts keyed by post id.
func (s *ModerationService) GetVerdicts() (map[int]model.ScanVerdict, error) {
	db := database.GetDB()
	var rows []model.ScanVerdict
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	verdicts := make(map[int]model.ScanVerdict, len(rows))
	for _, row := range rows {
		verdicts[row.BlogId] = row
	}
	return verdicts, nil
}

func (s *ModerationService) saveVerdict(blogID int, report *paddock.ModerationReport) error {
	db := database.GetDB()
	verdict := model.ScanVerdict{
		BlogId:    blogID,
		Flagged:   report.Flagged,
		Category:  report.Category,
		Targets:   report.Targets,
		Evidence:  report.Evidence,
		Reason:    report.Reason,
		ScannedAt: time.Now(),
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blog_id"}},
		UpdateAll: true,
	}).Create(&verdict).Error
}
