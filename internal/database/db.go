package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schemabridge/internal/config"
	"schemabridge/internal/models"
)

// EnsureDatabaseExists connects to the Postgres server with admin credentials
// and creates the metadata database if it is missing.
func EnsureDatabaseExists(cfg *config.Config, log *logrus.Logger) error {
	userInfo := url.UserPassword(cfg.DBAdminUser, cfg.DBAdminPassword)
	dsn := fmt.Sprintf(
		"postgres://%s@%s:%d/postgres?sslmode=disable",
		userInfo.String(), cfg.DBHost, cfg.DBPort,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var exists bool
	err = pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBDatabase,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		// CREATE DATABASE cannot run inside a transaction; quote the name to
		// handle special characters.
		quoted := pgx.Identifier{cfg.DBDatabase}.Sanitize()
		if _, err := pool.Exec(ctx, "CREATE DATABASE "+quoted); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		log.WithField("database", cfg.DBDatabase).Info("metadata database created")
	}

	return nil
}

// ConnectStore opens the metadata store and migrates the connection table.
func ConnectStore(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUsername, cfg.DBPassword, cfg.DBDatabase, cfg.DBPort,
	)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to metadata store: %w", err)
	}

	if err := db.AutoMigrate(&models.Connection{}); err != nil {
		return nil, fmt.Errorf("failed to migrate metadata store: %w", err)
	}

	return db, nil
}
