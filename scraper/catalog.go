// backend/scraper/catalog.go
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gewnthar/vacancies/backend/models"
)

// Links to the OData feed look like http://open.statswales.gov.wales/dataset/hous1401.
const openDataHost = "open.statswales.gov.wales"

// Publication date sources, most specific first.
var issuedSelectors = []string{
	`meta[name="DC.date.issued"]`,
	`meta[name="dcterms.issued"]`,
	`meta[property="article:published_time"]`,
}

var issuedLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "02/01/2006"}

// ScrapeCatalog fetches a StatsWales catalogue landing page and extracts the dataset
// title, description, publication date and the OData link for datasetID.
func ScrapeCatalog(ctx context.Context, client *Client, landingPage, datasetID string) (models.Catalog, error) {
	log.Printf("Scraper: reading catalogue page %s", landingPage)

	res, err := client.Get(ctx, landingPage)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("failed to get catalogue page: %w", err)
	}
	catalog, err := ParseCatalogPage(landingPage, datasetID, res.Body)
	if err != nil {
		return models.Catalog{}, err
	}

	log.Printf("Scraper: catalogue page %q lists %d distribution(s)", catalog.Dataset.Title, len(catalog.Distributions))
	return catalog, nil
}

// ParseCatalogPage extracts a Catalog from landing page HTML. Only a dataset link whose last
// path segment equals datasetID is registered; an empty datasetID accepts the first one.
func ParseCatalogPage(landingPage, datasetID string, html []byte) (models.Catalog, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return models.Catalog{}, fmt.Errorf("failed to parse HTML from %s: %w", landingPage, err)
	}
	base, err := url.Parse(landingPage)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("failed to parse landing page url %q: %w", landingPage, err)
	}

	title := collapseSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = collapseSpace(doc.Find("title").First().Text())
	}
	description, _ := doc.Find(`meta[name="description"]`).Attr("content")

	catalog := models.Catalog{
		LandingPage: landingPage,
		Dataset: models.Dataset{
			Title:       title,
			Description: collapseSpace(description),
			LandingPage: landingPage,
			Issued:      findIssued(doc),
		},
	}

	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		link, err := base.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		if !strings.EqualFold(link.Hostname(), openDataHost) || !strings.HasPrefix(link.Path, "/dataset/") {
			return true
		}
		if datasetID != "" && !strings.EqualFold(path.Base(link.Path), datasetID) {
			log.Printf("Scraper: skipping link to other dataset %s", link.String())
			return true
		}
		catalog, _ = GetOrRegister(catalog, models.Distribution{
			Title:       models.DistributionDataset,
			DownloadURL: link.String(),
			MediaType:   models.MediaTypeJSON,
		})
		return false
	})

	return catalog, nil
}

// GetOrRegister returns the distribution in c titled d.Title if there is one.
// Otherwise it returns a copy of c with d appended, and d itself. c is never modified.
func GetOrRegister(c models.Catalog, d models.Distribution) (models.Catalog, models.Distribution) {
	if existing, ok := c.Distribution(d.Title); ok {
		return c, existing
	}
	dists := make([]models.Distribution, 0, len(c.Distributions)+1)
	dists = append(dists, c.Distributions...)
	c.Distributions = append(dists, d)
	return c, d
}

// DatasetID returns the last path segment of an OData dataset URL, e.g. hous1401.
func DatasetID(datasetURL string) string {
	u, err := url.Parse(datasetURL)
	if err != nil || u.Path == "" {
		return ""
	}
	id := path.Base(strings.TrimSuffix(u.Path, "/"))
	if id == "/" || id == "." {
		return ""
	}
	return id
}

func findIssued(doc *goquery.Document) *time.Time {
	var candidates []string
	for _, sel := range issuedSelectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			candidates = append(candidates, v)
		}
	}
	if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		candidates = append(candidates, v)
	}

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		for _, layout := range issuedLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				t = t.UTC()
				return &t
			}
		}
		log.Printf("WARN Scraper: unrecognised publication date %q", c)
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
