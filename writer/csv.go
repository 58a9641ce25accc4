// backend/writer/csv.go
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gewnthar/vacancies/backend/models"
	"github.com/jszwec/csvutil"
)

// WriteCodelist writes entries with a Label,Notation,Parent Notation,Sort Priority header.
func WriteCodelist(path string, entries []models.CodelistEntry) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return encodeCsv(w, entries, models.CodelistEntry{})
	})
}

// WriteObservations writes the observation table. There is no index column.
func WriteObservations(path string, observations []models.Observation) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return encodeCsv(w, observations, models.Observation{})
	})
}

// encodeCsv writes rows, or only the header of headerOf when there are no rows.
func encodeCsv[T any](w io.Writer, rows []T, headerOf T) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	var err error
	if len(rows) == 0 {
		err = enc.EncodeHeader(headerOf)
	} else {
		err = enc.Encode(rows)
	}
	if err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// writeFileAtomic writes to a temporary file in the target directory and renames it
// into place, so a failed write never leaves a truncated file at path.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
