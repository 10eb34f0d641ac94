package database

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // Postgres driver
	_ "github.com/mattn/go-sqlite3"               // SQLite driver

	"mealprep/internal/models"
)

// Open connects to a relational store through gorm. driver is "sqlite3" or
// "postgres".
func Open(driver, dsn string, maxOpenConns int, logMode bool) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.LogMode(logMode)

	// Every connection to an in-memory sqlite database sees its own schema.
	if driver == "sqlite3" && (dsn == ":memory:" || dsn == "") {
		maxOpenConns = 1
	}
	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	db.DB().SetMaxIdleConns(maxOpenConns)
	db.DB().SetMaxOpenConns(maxOpenConns)
	db.DB().SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates or updates the order and roster tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.OrderRecord{},
		&models.WorkerRecord{},
	).Error
}

// SeedRoster stores the given roster when no workers exist yet
func SeedRoster(db *gorm.DB, roster models.Roster) error {
	var count int64
	if err := db.Model(&models.WorkerRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return transaction(db, func(tx *gorm.DB) error {
		for _, pool := range []models.Pool{models.PoolKitchen, models.PoolPackaging} {
			if err := insertWorkers(tx, pool, roster.Pool(pool)); err != nil {
				return err
			}
		}
		return nil
	})
}

// transaction runs fn inside a transaction, rolling back on error or panic
func transaction(db *gorm.DB, fn func(tx *gorm.DB) error) (err error) {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func insertWorkers(tx *gorm.DB, pool models.Pool, workers []models.Worker) error {
	for i, w := range workers {
		rec := models.WorkerRecord{
			Pool:       string(pool),
			Position:   i,
			Name:       w.Name,
			Percentage: w.Percentage,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to store %s worker %q: %w", pool, w.Name, err)
		}
	}
	return nil
}
