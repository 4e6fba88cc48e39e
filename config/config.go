package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("PANEL_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("PANEL_DEBUG") == "true"
}

// GetAPIBase returns the base URL of the external community API. Every blog,
// profile and moderation call goes through it.
func GetAPIBase() string {
	apiBase := os.Getenv("PANEL_API_BASE")
	if apiBase == "" {
		apiBase = "http://localhost/api"
	}
	return strings.TrimSuffix(apiBase, "/")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("PANEL_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/paddock-panel"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("PANEL_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}
