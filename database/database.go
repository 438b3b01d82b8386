package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"finconsole/config"
	"finconsole/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// dialector picks the gorm driver named by DB_DRIVER.
func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.DBDriver) {
	case "postgres", "postgresql":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(cfg.DBName), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// ConnectDb opens the audit database named by the config and migrates it
func ConnectDb() {
	dial, err := dialector(config.AppConfig)
	if err != nil {
		log.Fatalf("Failed to configure database: %v", err)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", config.AppConfig.DBDriver, err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	Database = DbInstance{Db: db}
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")
	if err := db.AutoMigrate(
		&models.AdminLogin{},
		&models.CommitAudit{},
	); err != nil {
		return err
	}
	log.Println("Migrations completed successfully.")
	return nil
}

// Use installs db as the global instance, migrating it first. Tests use it
// with an in-memory sqlite database.
func Use(db *gorm.DB) error {
	if err := runMigrations(db); err != nil {
		return err
	}
	Database = DbInstance{Db: db}
	return nil
}

// RecordCommit stores one settled console mutation. It is a no-op without a connection.
func RecordCommit(entry models.CommitAudit) {
	db := Database.Db
	if db == nil {
		return
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("[AUDIT] Error saving %s %s for owner %s: %v", entry.Action, entry.Kind, entry.OwnerID, err)
	}
}

// TrackLogin stores a console login attempt.
func TrackLogin(username, sessionID, ip, device string, success bool) {
	db := Database.Db
	if db == nil {
		return
	}
	record := models.AdminLogin{
		Username:  username,
		SessionID: sessionID,
		IPAddress: ip,
		Device:    device,
		Success:   success,
		Timestamp: time.Now(),
	}
	if err := db.Create(&record).Error; err != nil {
		log.Printf("[AUDIT] Error tracking login for %s: %v", username, err)
	}
}

// RecentCommits lists the latest audit rows for a session, newest first.
func RecentCommits(sessionID string, limit int) ([]models.CommitAudit, error) {
	var audits []models.CommitAudit
	db := Database.Db
	if db == nil {
		return audits, nil
	}
	err := db.Where("session_id = ?", sessionID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&audits).Error
	return audits, err
}
