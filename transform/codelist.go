// backend/transform/codelist.go
package transform

import (
	"fmt"

	"github.com/gewnthar/vacancies/backend/models"
	"github.com/gewnthar/vacancies/backend/utils"
)

// ExtractCodelist selects the items of one dimension and projects them onto codelist columns.
// Row order follows the items table.
func ExtractCodelist(items models.Table, dimension string) ([]models.CodelistEntry, error) {
	if !items.HasColumn(ItemsDimensionColumn) {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ItemsDimensionColumn)
	}

	selected := models.Table{Columns: items.Columns}
	for _, row := range items.Rows {
		if utils.FormatValue(row[ItemsDimensionColumn]) == dimension {
			selected.Rows = append(selected.Rows, row)
		}
	}

	projected, err := MapColumns(selected, ItemColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s codelist: %w", dimension, err)
	}

	entries := make([]models.CodelistEntry, len(projected.Rows))
	for i, row := range projected.Rows {
		entries[i] = models.CodelistEntry{
			Label:          utils.FormatValue(row["Label"]),
			Notation:       utils.NormalizeNotation(utils.FormatValue(row["Notation"])),
			ParentNotation: utils.FormatValue(row["Parent Notation"]),
			SortPriority:   utils.FormatValue(row["Sort Priority"]),
		}
	}
	return entries, nil
}
