// backend/models/catalog.go
package models

import "time"

const (
	DistributionDataset = "Dataset"
	DistributionItems   = "Items"

	MediaTypeJSON = "application/json"
)

// Distribution is a named downloadable artifact of a catalog entry.
type Distribution struct {
	Title       string
	DownloadURL string
	MediaType   string
}

// Dataset holds the descriptive metadata written to dataset.trig.
type Dataset struct {
	Title       string
	Description string
	LandingPage string
	Publisher   string
	Creator     string
	Family      string
	Theme       string
	Issued      *time.Time
	Modified    *time.Time
}

// Catalog is a scraped landing page: its dataset metadata and the distributions found on it.
// A Catalog is treated as a value; see scraper.GetOrRegister for adding distributions.
type Catalog struct {
	LandingPage   string
	Dataset       Dataset
	Distributions []Distribution
}

// Distribution looks up a distribution by title.
func (c Catalog) Distribution(title string) (Distribution, bool) {
	for _, d := range c.Distributions {
		if d.Title == title {
			return d, true
		}
	}
	return Distribution{}, false
}
