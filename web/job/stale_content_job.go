// Package job contains the periodic tasks the panel's scheduler runs.
package job

import (
	"context"
	"time"

	"github.com/AlvanCjh/paddock-panel/logger"
	"github.com/AlvanCjh/paddock-panel/paddock"
	"github.com/AlvanCjh/paddock-panel/util/common"
	"github.com/AlvanCjh/paddock-panel/web/service"

	"go.uber.org/atomic"
)

// StaleContentJob periodically counts the posts whose content changed after
// their last moderation scan and alerts the admin chat when the backlog
// crosses the configured threshold.
type StaleContentJob struct {
	settingService service.SettingService
	blogService    service.BlogService
	tgbotService   service.Tgbot

	running atomic.Bool
}

func NewStaleContentJob() *StaleContentJob {
	return new(StaleContentJob)
}

func (j *StaleContentJob) Run() {
	// a slow upstream fetch must not stack sweeps
	if !j.running.CompareAndSwap(false, true) {
		logger.Debug("stale content sweep already running, skipping")
		return
	}
	defer j.running.Store(false)
	defer common.Recover("stale content sweep")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	posts, err := j.blogService.GetFeed(ctx)
	if err != nil {
		logger.Warning("stale content sweep: fetch feed failed:", err)
		return
	}

	skew, err := j.settingService.GetScanSkew()
	if err != nil {
		logger.Warning("stale content sweep: read skew failed, using default:", err)
		skew = paddock.DefaultScanSkew
	}

	needScan := CountNeedingScan(posts, skew)
	logger.Debugf("stale content sweep: %d of %d posts need a scan", needScan, len(posts))

	threshold, err := j.settingService.GetStaleAlertThreshold()
	if err != nil {
		logger.Warning("stale content sweep: read threshold failed:", err)
		return
	}
	if threshold > 0 && needScan >= threshold {
		j.tgbotService.NotifyBacklog(needScan, len(posts))
	}
}

// CountNeedingScan counts the posts whose staleness state calls for a scan.
func CountNeedingScan(posts []paddock.BlogPost, skew time.Duration) int {
	needScan := 0
	for _, post := range posts {
		if paddock.Staleness(post.UpdatedAt.Time, post.LastScanAt.Time, skew).NeedsScan() {
			needScan++
		}
	}
	return needScan
}
