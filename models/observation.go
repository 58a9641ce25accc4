// backend/models/observation.go
package models

// Observation is one row of observations.csv.
// CSV tags define both the header text and the column order.
type Observation struct {
	Geography     string `csv:"Geography"`
	Availability  string `csv:"Availability"`
	Value         string `csv:"Value"`
	VacancyLength string `csv:"Vacancy length"`
	Provider      string `csv:"Provider"`
	VacancyType   string `csv:"Vacancy type"`
	Period        string `csv:"Period"`
	MeasureType   string `csv:"Measure Type"`
	Unit          string `csv:"Unit"`
}

// CodelistEntry is one row of a codelist CSV (vacancies.csv, providers.csv, ...).
type CodelistEntry struct {
	Label          string `csv:"Label"`
	Notation       string `csv:"Notation"`
	ParentNotation string `csv:"Parent Notation"`
	SortPriority   string `csv:"Sort Priority"`
}
