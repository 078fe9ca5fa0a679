// Package database opens the gorm connection and keeps the schema current.
package database

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/status"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// Connect opens driver ("mysql" or "sqlite") at dsn.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// one writer at a time, and every statement sees the same in-memory db
		sqlDB.SetMaxOpenConns(1)
	}
	utils.InfoLogger.Printf("Connected to %s database", driver)
	return db, nil
}

// Migrate creates or updates every table and seeds the status tables.
// Running it again changes nothing.
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&models.CommandStatus{},
		&models.OrderStatus{},
		&models.CashSessionStatus{},
		&models.TableStatus{},
		&models.Employee{},
		&models.Table{},
		&models.Product{},
		&models.ProductModifierGroup{},
		&models.ProductModifierOption{},
		&models.Command{},
		&models.Order{},
		&models.OrderModifier{},
		&models.CashSession{},
		&models.ClosingRecord{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := SeedStatuses(ctx, db); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedStatuses inserts the missing status keys of every family. Existing rows
// keep their identity.
func SeedStatuses(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for family, keys := range status.Defaults {
			for _, key := range keys {
				row := statusRow(family, key)
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
					return fmt.Errorf("seed %s status %s: %w", family, key, err)
				}
			}
		}
		return nil
	})
}

func statusRow(family status.Family, key string) any {
	switch family {
	case status.Command:
		return &models.CommandStatus{Key: key}
	case status.Order:
		return &models.OrderStatus{Key: key}
	case status.CashSession:
		return &models.CashSessionStatus{Key: key}
	default:
		return &models.TableStatus{Key: key}
	}
}
