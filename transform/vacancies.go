// backend/transform/vacancies.go
package transform

// StatsWales publishes labels (ItemName_ENG) and notations (Code) for each concept, plus
// alternative notations (AltCodeN). Codes are kept for StatsWales-specific concepts; the
// geography uses AltCode1, which carries the GSS area code.
var ObservationColumns = []ColumnMapping{
	{Source: "Area_AltCode1", Target: ColGeography},
	{Source: "Availability_Code", Target: ColAvailability},
	{Source: "Data", Target: ColValue},
	{Source: "Duration_Code", Target: ColVacancyLength},
	{Source: "Provider_Code", Target: ColProvider},
	{Source: "Vacancy_Code", Target: ColVacancyType},
	{Source: "Year_Code", Target: ColPeriod},
}

const (
	ColGeography     = "Geography"
	ColAvailability  = "Availability"
	ColValue         = "Value"
	ColVacancyLength = "Vacancy length"
	ColProvider      = "Provider"
	ColVacancyType   = "Vacancy type"
	ColPeriod        = "Period"
)

const (
	MeasureTypeCount = "Count"
	UnitVacancies    = "vacancies"
)

// VacancyLengthLabels maps Duration_Code values to the existing vacancy length concepts.
var VacancyLengthLabels = map[string]string{
	"1": "less-than-6-months",
	"2": "6-months-or-more",
	"3": "total",
}

// Items is the OData "datasetdimensionitems" feed: one row per value of every dimension.
const ItemsDimensionColumn = "DimensionName_ENG"

var ItemColumns = []ColumnMapping{
	{Source: "Description_ENG", Target: "Label"},
	{Source: "Code", Target: "Notation"},
	{Source: "Hierarchy", Target: "Parent Notation"},
	{Source: "SortOrder", Target: "Sort Priority"},
}

// CodelistSpec names an output codelist file and the dimension it is drawn from.
type CodelistSpec struct {
	Name      string // file name without extension
	Dimension string
}

var Codelists = []CodelistSpec{
	{Name: "vacancies", Dimension: "Vacancy"},
	{Name: "providers", Dimension: "Provider"},
	{Name: "availability", Dimension: "Availability"},
	{Name: "durations", Dimension: "Duration"},
}
