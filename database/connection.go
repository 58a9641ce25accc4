// backend/database/connection.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/gewnthar/vacancies/backend/config"
	"github.com/go-sql-driver/mysql" // MariaDB/MySQL driver
)

// Store records pipeline provenance in MySQL.
type Store struct {
	db *sql.DB
}

// DSN builds the driver connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	return mc.FormatDSN()
}

// Open connects to the database and creates the provenance table if needed.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Database: connected and migrated")
	return store, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.db != nil {
		s.db.Close()
		log.Println("Database: connection closed")
	}
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS data_source_versions (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id CHAR(36) NOT NULL,
			source_name VARCHAR(64) NOT NULL,
			source_file_url TEXT NOT NULL,
			pages INT NOT NULL DEFAULT 0,
			row_count INT NOT NULL DEFAULT 0,
			data_hash CHAR(64) NULL,
			from_cache BOOLEAN NOT NULL DEFAULT FALSE,
			fetched_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_data_source_versions_run (run_id),
			INDEX idx_data_source_versions_source (source_name, fetched_at)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create data_source_versions table: %w", err)
	}
	return nil
}
