// backend/transform/normalize.go
package transform

import (
	"errors"
	"fmt"
	"log"

	"github.com/gewnthar/vacancies/backend/models"
	"github.com/gewnthar/vacancies/backend/utils"
)

// ErrUnmappedCode is returned in strict mode when a code has no label.
var ErrUnmappedCode = errors.New("code has no label")

type Options struct {
	// StrictLookups turns an unmapped vacancy length code into an error.
	// Otherwise the value is left empty and counted in Report.UnmappedLengths.
	StrictLookups bool
}

// Report summarizes what NormalizeObservations did.
type Report struct {
	Rows            int
	UnmappedLengths map[string]int // source code -> occurrences
}

// NormalizeObservations converts a table produced by MapColumns(raw, ObservationColumns)
// into observations.
func NormalizeObservations(t models.Table, opts Options) ([]models.Observation, Report, error) {
	report := Report{UnmappedLengths: map[string]int{}}
	for _, col := range ObservationColumns {
		if !t.HasColumn(col.Target) {
			return nil, report, fmt.Errorf("%w: %q", ErrMissingColumn, col.Target)
		}
	}

	observations := make([]models.Observation, 0, len(t.Rows))
	for i, row := range t.Rows {
		period, err := utils.FiscalYearInterval(utils.FormatValue(row[ColPeriod]))
		if err != nil {
			return nil, report, fmt.Errorf("row %d: %w", i+1, err)
		}

		lengthCode := utils.NormalizeNotation(utils.FormatValue(row[ColVacancyLength]))
		length, ok := VacancyLengthLabels[lengthCode]
		if !ok {
			if opts.StrictLookups {
				return nil, report, fmt.Errorf("row %d: %w: vacancy length %q", i+1, ErrUnmappedCode, lengthCode)
			}
			report.UnmappedLengths[lengthCode]++
		}

		observations = append(observations, models.Observation{
			Geography:     utils.FormatValue(row[ColGeography]),
			Availability:  utils.FormatValue(row[ColAvailability]),
			Value:         utils.FormatValue(row[ColValue]),
			VacancyLength: length,
			Provider:      utils.FormatValue(row[ColProvider]),
			VacancyType:   utils.NormalizeNotation(utils.FormatValue(row[ColVacancyType])),
			Period:        period,
			MeasureType:   MeasureTypeCount,
			Unit:          UnitVacancies,
		})
	}
	report.Rows = len(observations)

	for code, n := range report.UnmappedLengths {
		log.Printf("WARN Transform: vacancy length code %q has no label; left empty in %d row(s)", code, n)
	}
	return observations, report, nil
}

// DedupeObservations drops rows identical to an earlier row, keeping order.
func DedupeObservations(observations []models.Observation) []models.Observation {
	seen := make(map[models.Observation]struct{}, len(observations))
	out := make([]models.Observation, 0, len(observations))
	for _, o := range observations {
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
