package job

import (
	"github.com/AlvanCjh/paddock-panel/logger"
	"github.com/AlvanCjh/paddock-panel/web/service"
)

// AuditCleanupJob cleans up old audit logs
type AuditCleanupJob struct {
	auditService   service.AuditLogService
	settingService service.SettingService
}

// NewAuditCleanupJob creates a new audit cleanup job
func NewAuditCleanupJob() *AuditCleanupJob {
	return new(AuditCleanupJob)
}

// Run cleans up old audit logs
func (j *AuditCleanupJob) Run() {
	retentionDays, err := j.settingService.GetAuditRetentionDays()
	if err != nil || retentionDays <= 0 {
		retentionDays = 30
	}

	err = j.auditService.CleanOldLogs(retentionDays)
	if err != nil {
		logger.Warning("Failed to clean old audit logs:", err)
	} else {
		logger.Debugf("Audit cleanup completed (retention: %d days)", retentionDays)
	}
}
