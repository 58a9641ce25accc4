// backend/models/meta.go
package models

import "time"

// DataSourceVersion records one distribution fetch made by a pipeline run.
type DataSourceVersion struct {
	ID            int64     `db:"id" json:"id"`
	RunID         string    `db:"run_id" json:"run_id"`
	SourceName    string    `db:"source_name" json:"source_name"` // distribution title, e.g. "Dataset", "Items"
	SourceFileURL string    `db:"source_file_url" json:"source_file_url"`
	Pages         int       `db:"pages" json:"pages"`
	RowCount      int       `db:"row_count" json:"row_count"`
	DataHash      string    `db:"data_hash" json:"data_hash,omitempty"` // SHA-256 over all page bodies
	FromCache     bool      `db:"from_cache" json:"from_cache"`
	FetchedAt     time.Time `db:"fetched_at" json:"fetched_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
