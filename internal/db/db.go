// Package db opens the catalogue database and keeps connection handling in
// one place: driver selection, pooling, startup retry, and schema
// auto-migration.
package db

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/apigovau/service-catalogue/internal/config"
	"github.com/apigovau/service-catalogue/pkg/models"
)

const (
	maxIdleConns    = 10
	maxOpenConns    = 25
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = 10 * time.Minute

	connectMaxRetries = 5
)

// NewDB opens a migrated database using the configured driver. The initial
// connection is retried with exponential backoff so the server survives a
// database that is still coming up.
func NewDB(cfg *config.Database, log hclog.Logger) (*gorm.DB, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	connect := func() error {
		var err error
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			log.Warn("error connecting to database, retrying", "error", err)
		}
		return err
	}
	policy := backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(), connectMaxRetries)
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting underlying SQL DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.AutoMigrate(models.ModelsToAutoMigrate()...); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	log.Info("connected to database",
		"driver", cfg.Driver,
		"max_idle_conns", maxIdleConns,
		"max_open_conns", maxOpenConns,
	)
	return db, nil
}

func dialectorFor(cfg *config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		return postgres.Open(dsn), nil

	case "sqlite":
		return sqlite.Open(cfg.Path), nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
