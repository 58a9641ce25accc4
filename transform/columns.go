// backend/transform/columns.go
package transform

import (
	"errors"
	"fmt"

	"github.com/gewnthar/vacancies/backend/models"
)

// ErrMissingColumn is returned when a mapped source column is not in the table header.
var ErrMissingColumn = errors.New("missing source column")

// ColumnMapping renames Source to Target.
type ColumnMapping struct {
	Source string
	Target string
}

// MapColumns keeps only the mapped columns, renamed, in mapping order.
// Every Source must exist in t.Columns and every Target must be unique.
func MapColumns(t models.Table, mappings []ColumnMapping) (models.Table, error) {
	targets := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if targets[m.Target] {
			return models.Table{}, fmt.Errorf("column %q is the target of more than one mapping", m.Target)
		}
		targets[m.Target] = true
		if !t.HasColumn(m.Source) {
			return models.Table{}, fmt.Errorf("%w: %q", ErrMissingColumn, m.Source)
		}
	}

	out := models.Table{
		Columns: make([]string, len(mappings)),
		Rows:    make([]models.Record, len(t.Rows)),
	}
	for i, m := range mappings {
		out.Columns[i] = m.Target
	}
	for i, row := range t.Rows {
		mapped := make(models.Record, len(mappings))
		for _, m := range mappings {
			mapped[m.Target] = row[m.Source]
		}
		out.Rows[i] = mapped
	}
	return out, nil
}
