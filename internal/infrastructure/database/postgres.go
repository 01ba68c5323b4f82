package database

import (
	"fmt"
	"log"
	"time"

	migrate "github.com/rubenv/sql-migrate"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minhledev/podcast-marketer/pkg/config"
)

// migrationsDir is resolved relative to the working directory of the binary.
// Both cmd/api (with DB_AUTO_MIGRATE) and cmd/migrate read the same source.
const migrationsDir = "migrations"

// NewPostgresDB opens the episode content database. Marketing workers hold a
// connection for the whole generation run, so the pool is sized from config
// (DB_MAX_CONNS must cover worker count plus the HTTP surface) instead of
// gorm defaults.
func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: gormLogLevel(cfg.Server.Environment),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	return db, nil
}

// gormLogLevel keeps query logging verbose in development and quiet in
// production, where the job workers would otherwise flood the log with
// polling queries.
func gormLogLevel(environment string) logger.Interface {
	if environment == "production" {
		return logger.Default.LogMode(logger.Error)
	}
	return logger.Default.LogMode(logger.Info)
}

// MigrationSource returns the sql-migrate source for the schema files
// shipped with the service.
func MigrationSource() migrate.MigrationSource {
	return &migrate.FileMigrationSource{Dir: migrationsDir}
}

// MigrateUp applies pending schema migrations and returns how many ran.
func MigrateUp(db *gorm.DB) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get database object: %w", err)
	}

	n, err := migrate.Exec(sqlDB, "postgres", MigrationSource(), migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return n, nil
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✅ Database connection closed")
	return nil
}
