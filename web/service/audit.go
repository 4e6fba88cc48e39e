package service

import (
	"time"

	"github.com/AlvanCjh/paddock-panel/database"
	"github.com/AlvanCjh/paddock-panel/database/model"
	"github.com/AlvanCjh/paddock-panel/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// AuditLogService records every admin action against the community API so
// races between concurrent admins can be reconstructed afterwards.
type AuditLogService struct{}

// LogAction logs an audit action with error handling
func (s *AuditLogService) LogAction(adminEmail, action, resource string, resourceID int, ip, userAgent string, details map[string]interface{}) error {
	db := database.GetDB()

	detailsJSON := ""
	if details != nil {
		jsonData, err := json.Marshal(details)
		if err != nil {
			logger.Warning("Failed to marshal audit log details:", err)
		} else {
			detailsJSON = string(jsonData)
		}
	}

	auditLog := model.AuditLog{
		RequestId:  uuid.NewString(),
		AdminEmail: adminEmail,
		Action:     action,
		Resource:   resource,
		ResourceId: resourceID,
		IP:         ip,
		UserAgent:  userAgent,
		Details:    detailsJSON,
		Timestamp:  time.Now(),
	}

	if err := db.Create(&auditLog).Error; err != nil {
		logger.Warningf("Failed to create audit log: admin=%s, action=%s, resource=%s, error=%v", adminEmail, action, resource, err)
		return err
	}

	return nil
}

// GetAuditLogs retrieves audit logs with filters and pagination
func (s *AuditLogService) GetAuditLogs(limit, offset int, action, resource string) ([]model.AuditLog, int64, error) {
	db := database.GetDB()

	query := db.Model(&model.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if resource != "" {
		query = query.Where("resource = ?", resource)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.AuditLog
	err := query.Order("timestamp DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, total, err
}

// CleanOldLogs deletes audit rows older than the retention window.
func (s *AuditLogService) CleanOldLogs(retentionDays int) error {
	db := database.GetDB()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return db.Where("timestamp < ?", cutoff).Delete(&model.AuditLog{}).Error
}
