package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gewnthar/vacancies/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTableSchema(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "observations.csv")
	schemaPath := filepath.Join(dir, "observations.csv-schema.json")
	require.NoError(t, WriteObservations(csvPath, []models.Observation{{Geography: "W06000001"}}))

	require.NoError(t, WriteTableSchema(csvPath, schemaPath, "https://ons-opendata.github.io/ref_housing"))

	raw, err := os.ReadFile(schemaPath)
	require.NoError(t, err)
	var schema TableSchema
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, "http://www.w3.org/ns/csvw", schema.Context)
	assert.Equal(t, "observations.csv", schema.URL)

	names := make([]string, len(schema.TableSchema.Columns))
	for i, c := range schema.TableSchema.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{
		"geography", "availability", "value", "vacancy_length", "provider",
		"vacancy_type", "period", "measure_type", "unit",
	}, names)
	assert.Equal(t, []string{
		"geography", "availability", "vacancy_length", "provider", "vacancy_type", "period", "measure_type",
	}, schema.TableSchema.PrimaryKey)
	assert.Equal(t,
		"https://ons-opendata.github.io/ref_housing/data/observations/{geography}/{availability}/{vacancy_length}/{provider}/{vacancy_type}/{period}/{measure_type}",
		schema.TableSchema.AboutURL)

	byName := map[string]Column{}
	for _, c := range schema.TableSchema.Columns {
		byName[c.Name] = c
	}
	assert.Equal(t, "https://ons-opendata.github.io/ref_housing/def/dimension/vacancy-type", byName["vacancy_type"].PropertyURL)
	assert.Equal(t, "https://ons-opendata.github.io/ref_housing/def/concept/vacancy-type/{vacancy_type}", byName["vacancy_type"].ValueURL)
	assert.Equal(t, "decimal", byName["value"].Datatype)
	assert.False(t, byName["vacancy_length"].Required)
	assert.True(t, byName["geography"].Required)
}

func TestWriteTableSchemaMissingCsv(t *testing.T) {
	dir := t.TempDir()
	err := WriteTableSchema(filepath.Join(dir, "nope.csv"), filepath.Join(dir, "nope.json"), "http://example.org/")
	assert.Error(t, err)
}
