package model

import (
	"time"
)

// Setting is a key/value row holding one panel setting.
type Setting struct {
	Id    int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" form:"key" gorm:"unique"`
	Value string `json:"value" form:"value"`
}

// AuditLog records one admin action against the community API.
type AuditLog struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestId  string    `json:"request_id"`
	AdminEmail string    `json:"admin_email"`
	Action     string    `json:"action"`   // SCAN, STRIKE, DELETE, LOGIN, LOGOUT
	Resource   string    `json:"resource"` // blog, user
	ResourceId int       `json:"resource_id"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	Details    string    `json:"details"` // JSON string with additional details
	Timestamp  time.Time `json:"timestamp"`
}

// ScanVerdict caches the most recent moderation report for a post so the
// verdict survives a page reload. Overwritten by the next scan and pruned
// when the post is deleted; the community API stays the source of truth
// for last_scan_at.
type ScanVerdict struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	BlogId    int       `json:"blog_id" gorm:"unique"`
	Flagged   bool      `json:"flagged"`
	Category  string    `json:"category"`
	Targets   string    `json:"targets"`
	Evidence  string    `json:"evidence"`
	Reason    string    `json:"reason"`
	ScannedAt time.Time `json:"scanned_at"`
}
