// Package database manages the panel's local sqlite store: settings,
// audit log and cached scan verdicts. Community content itself lives in
// the external API and is never persisted here.
package database

import (
	"io/fs"
	"log"
	"os"
	"path"

	"github.com/AlvanCjh/paddock-panel/config"
	"github.com/AlvanCjh/paddock-panel/database/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func initModels() error {
	models := []interface{}{
		&model.Setting{},
		&model.AuditLog{},
		&model.ScanVerdict{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	_, err = sqlDB.Exec("PRAGMA cache_size = -64000;")
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec("PRAGMA temp_store = MEMORY;")
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return err
	}

	return initModels()
}

func GetDB() *gorm.DB {
	return db
}

// IsNotFound reports whether err is gorm's record-not-found error.
func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}
