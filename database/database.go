package database

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"elearn/config"
	"elearn/logger"
	"elearn/models"
	courseModels "elearn/models/course"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, migrates it and stores it globally.
func ConnectDb(cfg *config.Config) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	if err := RunMigrations(db); err != nil {
		return err
	}
	Database = DbInstance{Db: db}
	return nil
}

// newGormLogger reports slow queries and real errors. Missing rows are an
// expected outcome of lookups and stay quiet.
func newGormLogger(w io.Writer) gormLogger.Interface {
	return gormLogger.New(log.New(w, "\r\n", log.LstdFlags), gormLogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Open connects to postgres or sqlite depending on cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: newGormLogger(os.Stdout),
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBName)
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// a single connection keeps in-memory databases shared and writes serialised
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	logger.Log.Info("database connected", "driver", db.Dialector.Name())
	return db, nil
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	logger.Log.Info("running migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.LoginTracking{},
		&courseModels.Course{},
		&courseModels.Progress{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Log.Info("migrations completed")
	return nil
}

// IsPostgres reports whether db speaks postgres, which is the only dialect
// the row-locking clauses are issued for.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
