package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gewnthar/vacancies/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const landingHTML = `<html>
<head>
  <title>StatsWales - ignored</title>
  <meta name="description" content="Social housing vacancies by
      area, availability and duration.">
  <meta name="DC.date.issued" content="2019-08-22">
</head>
<body>
  <h1>  Social housing vacancies by area, availability and duration </h1>
  <a href="/Help">Help</a>
  <a href="http://open.statswales.gov.wales/dataset/hous1401">Open Data</a>
  <a href="http://open.statswales.gov.wales/dataset/hous1402">Other</a>
</body>
</html>`

func TestParseCatalogPage(t *testing.T) {
	page := "https://statswales.gov.wales/Catalogue/Housing/Social-Housing-Vacancies/vacancies-by-area-availability-duration"
	catalog, err := ParseCatalogPage(page, "hous1401", []byte(landingHTML))
	require.NoError(t, err)

	assert.Equal(t, page, catalog.LandingPage)
	assert.Equal(t, "Social housing vacancies by area, availability and duration", catalog.Dataset.Title)
	assert.Equal(t, "Social housing vacancies by area, availability and duration.", catalog.Dataset.Description)
	require.NotNil(t, catalog.Dataset.Issued)
	assert.Equal(t, time.Date(2019, 8, 22, 0, 0, 0, 0, time.UTC), *catalog.Dataset.Issued)

	require.Len(t, catalog.Distributions, 1)
	assert.Equal(t, models.Distribution{
		Title:       models.DistributionDataset,
		DownloadURL: "http://open.statswales.gov.wales/dataset/hous1401",
		MediaType:   models.MediaTypeJSON,
	}, catalog.Distributions[0])
}

func TestParseCatalogPageWithoutDistributions(t *testing.T) {
	catalog, err := ParseCatalogPage("http://example.org/page", "hous1401", []byte(`<html><head><title>Only a title</title></head></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Only a title", catalog.Dataset.Title)
	assert.Empty(t, catalog.Distributions)
	assert.Nil(t, catalog.Dataset.Issued)
}

func TestParseCatalogPageSkipsOtherDatasets(t *testing.T) {
	html := `<html><body><h1>Vacancies</h1>
  <a href="http://open.statswales.gov.wales/dataset/hous1402">Related: lettings</a>
  <a href="http://open.statswales.gov.wales/dataset/HOUS1401">Open Data</a>
</body></html>`

	catalog, err := ParseCatalogPage("http://example.org/page", "hous1401", []byte(html))
	require.NoError(t, err)
	dist, ok := catalog.Distribution(models.DistributionDataset)
	require.True(t, ok)
	assert.Equal(t, "http://open.statswales.gov.wales/dataset/HOUS1401", dist.DownloadURL)

	catalog, err = ParseCatalogPage("http://example.org/page", "hous9999", []byte(html))
	require.NoError(t, err)
	assert.Empty(t, catalog.Distributions)

	catalog, err = ParseCatalogPage("http://example.org/page", "", []byte(html))
	require.NoError(t, err)
	dist, ok = catalog.Distribution(models.DistributionDataset)
	require.True(t, ok)
	assert.Equal(t, "http://open.statswales.gov.wales/dataset/hous1402", dist.DownloadURL)
}

func TestParseCatalogPageIssuedFromTimeElement(t *testing.T) {
	html := `<html><body><h1>Vacancies</h1>
  <meta name="DC.date.issued" content="soon">
  <p>Published <time datetime="2020-03-05T09:30:00Z">5 March 2020</time></p>
</body></html>`

	catalog, err := ParseCatalogPage("http://example.org/page", "", []byte(html))
	require.NoError(t, err)
	require.NotNil(t, catalog.Dataset.Issued)
	assert.Equal(t, time.Date(2020, 3, 5, 9, 30, 0, 0, time.UTC), *catalog.Dataset.Issued)
}

func TestDatasetID(t *testing.T) {
	assert.Equal(t, "hous1401", DatasetID("http://open.statswales.gov.wales/dataset/hous1401"))
	assert.Equal(t, "hous1401", DatasetID("http://open.statswales.gov.wales/dataset/hous1401/"))
	assert.Equal(t, "", DatasetID(""))
	assert.Equal(t, "", DatasetID("http://example.org/"))
}

func TestScrapeCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(landingHTML))
	}))
	defer srv.Close()

	catalog, err := ScrapeCatalog(context.Background(), NewClient(nil, ClientOptions{}), srv.URL+"/landing", "hous1401")
	require.NoError(t, err)
	_, ok := catalog.Distribution(models.DistributionDataset)
	assert.True(t, ok)
}

func TestGetOrRegister(t *testing.T) {
	original := models.Catalog{Distributions: []models.Distribution{
		{Title: models.DistributionDataset, DownloadURL: "http://example.org/dataset", MediaType: models.MediaTypeJSON},
	}}

	items := models.Distribution{Title: models.DistributionItems, DownloadURL: "http://example.org/items", MediaType: models.MediaTypeJSON}
	updated, got := GetOrRegister(original, items)
	assert.Equal(t, items, got)
	assert.Len(t, updated.Distributions, 2)
	assert.Len(t, original.Distributions, 1, "receiver must not be modified")

	again, got := GetOrRegister(updated, models.Distribution{Title: models.DistributionItems, DownloadURL: "http://other"})
	assert.Equal(t, "http://example.org/items", got.DownloadURL)
	assert.Len(t, again.Distributions, 2)

	// Appending to a registered catalog must not write into the other's backing array.
	a, _ := GetOrRegister(updated, models.Distribution{Title: "A"})
	b, _ := GetOrRegister(updated, models.Distribution{Title: "B"})
	assert.Equal(t, "A", a.Distributions[2].Title)
	assert.Equal(t, "B", b.Distributions[2].Title)
}
