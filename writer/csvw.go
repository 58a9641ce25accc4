// backend/writer/csvw.go
package writer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gewnthar/vacancies/backend/utils"
)

const csvwContext = "http://www.w3.org/ns/csvw"

// Component URIs for columns that are not dataset specific.
const (
	sdmxRefArea     = "http://purl.org/linked-data/sdmx/2009/dimension#refArea"
	sdmxRefPeriod   = "http://purl.org/linked-data/sdmx/2009/dimension#refPeriod"
	sdmxUnitMeasure = "http://purl.org/linked-data/sdmx/2009/attribute#unitMeasure"
	qbMeasureType   = "http://purl.org/linked-data/cube#measureType"
)

// TableSchema is a CSV on the Web metadata document for one CSV file.
type TableSchema struct {
	Context     string      `json:"@context"`
	URL         string      `json:"url"`
	TableSchema tableSchema `json:"tableSchema"`
}

type tableSchema struct {
	Columns    []Column `json:"columns"`
	AboutURL   string   `json:"aboutUrl,omitempty"`
	PrimaryKey []string `json:"primaryKey,omitempty"`
}

// Column describes one CSV column.
type Column struct {
	Titles      string `json:"titles"`
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Datatype    string `json:"datatype,omitempty"`
	PropertyURL string `json:"propertyUrl,omitempty"`
	ValueURL    string `json:"valueUrl,omitempty"`
}

// WriteTableSchema reads the header of csvPath and writes its CSVW metadata to schemaPath.
// base is the URI prefix for dataset specific dimensions and concepts.
func WriteTableSchema(csvPath, schemaPath, base string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", csvPath, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", csvPath, err)
	}

	schema := BuildTableSchema(filepath.Base(csvPath), header, base)
	return writeFileAtomic(schemaPath, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(schema)
	})
}

// BuildTableSchema describes an observations file with the given header.
func BuildTableSchema(fileName string, header []string, base string) TableSchema {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	var (
		columns    = make([]Column, 0, len(header))
		dimensions []string
	)
	for _, title := range header {
		col := describeColumn(title, base)
		columns = append(columns, col)
		if isDimension(title) {
			dimensions = append(dimensions, col.Name)
		}
	}

	aboutParts := make([]string, len(dimensions))
	for i, d := range dimensions {
		aboutParts[i] = "{" + d + "}"
	}

	return TableSchema{
		Context: csvwContext,
		URL:     fileName,
		TableSchema: tableSchema{
			Columns:    columns,
			AboutURL:   base + "data/" + utils.Pathify(strings.TrimSuffix(fileName, filepath.Ext(fileName))) + "/" + strings.Join(aboutParts, "/"),
			PrimaryKey: dimensions,
		},
	}
}

func columnName(title string) string {
	return strings.ReplaceAll(utils.Pathify(title), "-", "_")
}

func isDimension(title string) bool {
	switch title {
	case "Value", "Unit":
		return false
	}
	return true
}

func describeColumn(title, base string) Column {
	name := columnName(title)
	col := Column{Titles: title, Name: name, Required: true, Datatype: "string"}

	switch title {
	case "Geography":
		col.PropertyURL = sdmxRefArea
		col.ValueURL = "http://statistics.data.gov.uk/id/statistical-geography/{" + name + "}"
	case "Period":
		col.PropertyURL = sdmxRefPeriod
		col.ValueURL = "http://reference.data.gov.uk/id/{" + name + "}"
	case "Measure Type":
		col.PropertyURL = qbMeasureType
		col.ValueURL = base + "def/measure/{" + name + "}"
	case "Unit":
		col.PropertyURL = sdmxUnitMeasure
		col.ValueURL = base + "def/concept/measurement-units/{" + name + "}"
	case "Value":
		col.Datatype = "decimal"
		col.PropertyURL = base + "def/measure/{measure_type}"
	default:
		slug := utils.Pathify(title)
		col.PropertyURL = base + "def/dimension/" + slug
		col.ValueURL = base + "def/concept/" + slug + "/{" + name + "}"
	}
	// Duration codes without a label are written empty.
	if title == "Vacancy length" {
		col.Required = false
	}
	return col
}
