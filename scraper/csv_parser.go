// backend/scraper/csv_parser.go
package scraper

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/gewnthar/vacancies/backend/models"
	"github.com/jszwec/csvutil"
)

// ParseCodelistCsv reads a codelist file written by writer.WriteCodelist.
// csvutil maps columns to fields using the `csv:"..."` tags in models.CodelistEntry.
func ParseCodelistCsv(reader io.Reader) ([]models.CodelistEntry, error) {
	var entries []models.CodelistEntry
	if err := decodeCsv(reader, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode codelist CSV data: %w", err)
	}
	return entries, nil
}

// ParseObservationsCsv reads an observations file written by writer.WriteObservations.
func ParseObservationsCsv(reader io.Reader) ([]models.Observation, error) {
	var observations []models.Observation
	if err := decodeCsv(reader, &observations); err != nil {
		return nil, fmt.Errorf("failed to decode observations CSV data: %w", err)
	}
	return observations, nil
}

func decodeCsv(reader io.Reader, out any) error {
	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("missing header row")
	}
	if err != nil {
		return fmt.Errorf("failed to create CSV decoder: %w", err)
	}
	decoder.DisallowMissingColumns = true
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
