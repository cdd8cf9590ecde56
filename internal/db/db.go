package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"invitation-canvas-editor/internal/config"
	"invitation-canvas-editor/internal/logger"
)

// Dialector picks the gorm driver for cfg.DBDriver.
func Dialector(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "", "postgres":
		dsn := fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=disable",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBPath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Connect opens the database described by cfg.
func Connect(cfg config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Info
	if cfg.Environment == "production" {
		level = gormlogger.Error
	}
	newLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      level,
			Colorful:      cfg.Environment != "production",
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("error connecting to db: %w", err)
	}
	logger.Infof("Success connecting to %s db", cfg.DBDriver)
	return db, nil
}

// OpenMemory opens a private in-memory sqlite database, used by tests and local tooling.
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Errorf("failed to close db %v", err)
	}
}
