package database

import (
	"fmt"
	"log"
	"time"

	"pharmacy-backoffice/internal/config"
	"pharmacy-backoffice/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured backend. Nothing is meant to outlive the
// process: callers follow up with Reset, which wipes and reseeds every table.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.Driver {
	case "", "sqlite":
		return OpenMemory(gormCfg)
	case "mysql":
		return openMySQL(cfg.DSN, gormCfg)
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
}

// OpenMemory opens a private SQLite database living in process memory.
func OpenMemory(gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(":memory:"), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// every new connection to ":memory:" is a fresh empty database
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func openMySQL(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is required when DB_DRIVER=mysql")
	}

	var db *gorm.DB
	var err error

	// wait for the database to be ready
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), gormCfg)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after 5 attempts: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Connected to MySQL scratch database")
	return db, nil
}

var tables = []interface{}{
	&models.Sequence{},
	&models.Medicine{},
	&models.Sale{},
	&models.SaleLine{},
	&models.Supplier{},
	&models.SystemUser{},
	&models.LowStockAlert{},
}

// Reset drops every table, recreates the schema and loads the seed rows.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(tables...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := Seed(db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
