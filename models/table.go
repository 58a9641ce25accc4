// backend/models/table.go
package models

// Record is a single row decoded from a source table, keyed by column name.
type Record map[string]any

// Table is a decoded source table. Columns is the header; every key in a Row
// is one of Columns, but a Row may omit columns the source left out.
type Table struct {
	Columns []string
	Rows    []Record
}

// HasColumn reports whether name is part of the table header.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
