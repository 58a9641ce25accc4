// backend/database/datasource_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gewnthar/vacancies/backend/models"
)

// LogDataSourceVersion inserts one row describing a distribution fetch.
func (s *Store) LogDataSourceVersion(ctx context.Context, v models.DataSourceVersion) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	var dataHash sql.NullString
	if v.DataHash != "" {
		dataHash = sql.NullString{String: v.DataHash, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO data_source_versions (
			run_id, source_name, source_file_url, pages, row_count,
			data_hash, from_cache, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.RunID, v.SourceName, v.SourceFileURL, v.Pages, v.RowCount,
		dataHash, v.FromCache, v.FetchedAt.UTC(),
	)
	if err != nil {
		log.Printf("ERROR Database: Failed to log data source version for '%s': %v", v.SourceName, err)
		return fmt.Errorf("failed to log data source version for %s: %w", v.SourceName, err)
	}

	log.Printf("Database: logged %s fetch for run %s (%d rows, cached=%t)", v.SourceName, v.RunID, v.RowCount, v.FromCache)
	return nil
}

// GetDataSourceVersions returns the provenance rows of one run, oldest first.
func (s *Store) GetDataSourceVersions(ctx context.Context, runID string) ([]models.DataSourceVersion, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, source_name, source_file_url, pages, row_count,
		       data_hash, from_cache, fetched_at, created_at
		FROM data_source_versions
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query data_source_versions: %w", err)
	}
	defer rows.Close()

	var versions []models.DataSourceVersion
	for rows.Next() {
		var (
			v        models.DataSourceVersion
			dataHash sql.NullString
		)
		err := rows.Scan(
			&v.ID, &v.RunID, &v.SourceName, &v.SourceFileURL, &v.Pages, &v.RowCount,
			&dataHash, &v.FromCache, &v.FetchedAt, &v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan data_source_version row: %w", err)
		}
		v.DataHash = dataHash.String
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating data_source_version rows: %w", err)
	}
	return versions, nil
}
