package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/missionboard/models"
)

var db *gorm.DB

// InitDatabase connects using configuration values, migrates the schema and
// seeds the mission catalog. Any failure is fatal.
func InitDatabase() *gorm.DB {
	if db != nil {
		return db
	}

	cfg := Get()
	conn, err := OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatalf("auto migration failed: %v", err)
	}

	if cfg.SeedMissions {
		n, err := SeedMissions(conn)
		if err != nil {
			log.Fatalf("mission seed failed: %v", err)
		}
		if n > 0 {
			log.Printf("seeded %d missions", n)
		}
	}

	db = conn
	return db
}

// OpenDatabase opens a gorm connection for the configured driver and verifies it with a ping.
func OpenDatabase(cfg AppConfig) (*gorm.DB, error) {
	// Configure GORM logger: derive level from app LogLevel and raise slow-sql threshold to reduce noise
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gormCfg := &gorm.Config{
		Logger:         gLogger,
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." && dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	case "mysql", "":
		dialector = mysql.Open(mysqlDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// sqlite allows a single writer; one connection serializes transactions
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(models.All()...)
}

func mysqlDSN(cfg AppConfig) string {
	if cfg.DatabaseURI != "" {
		return cfg.DatabaseURI
	}
	// UTC keeps completed_at consistent with the UTC day key
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
	)
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "info", "", "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// DB provides access to initialized gorm DB instance.
func DB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}
