// backend/services/pipeline_service.go
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/gewnthar/vacancies/backend/config"
	"github.com/gewnthar/vacancies/backend/models"
	"github.com/gewnthar/vacancies/backend/scraper"
	"github.com/gewnthar/vacancies/backend/transform"
	"github.com/gewnthar/vacancies/backend/writer"
	"github.com/google/uuid"
)

const (
	observationsFile = "observations.csv"
	schemaFile       = "observations.csv-schema.json"
	metadataFile     = "dataset.trig"
)

// ProvenanceLogger records which distributions a run fetched. database.Store implements it.
type ProvenanceLogger interface {
	LogDataSourceVersion(ctx context.Context, v models.DataSourceVersion) error
}

// Pipeline downloads the vacancies dataset and writes the transformed outputs.
type Pipeline struct {
	Config config.Config
	Client *scraper.Client
	Store  ProvenanceLogger // optional
	Now    func() time.Time
}

// Result summarizes a completed run.
type Result struct {
	RunID             string
	ObservationRows   int
	DuplicatesDropped int
	CodelistRows      map[string]int
	UnmappedLengths   map[string]int
	Files             []string
}

// Run executes the whole pipeline once. Any fetch or transform error aborts the run.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	result := Result{RunID: uuid.NewString(), CodelistRows: map[string]int{}}
	outDir := p.Config.Output.Dir
	log.Printf("Service: starting run %s, writing to %s", result.RunID, outDir)

	catalog, err := scraper.ScrapeCatalog(ctx, p.Client, p.Config.Catalog.LandingPage, scraper.DatasetID(p.Config.Catalog.DatasetURL))
	if err != nil {
		return result, fmt.Errorf("failed to scrape catalogue: %w", err)
	}
	catalog, datasetDist := scraper.GetOrRegister(catalog, models.Distribution{
		Title:       models.DistributionDataset,
		DownloadURL: p.Config.Catalog.DatasetURL,
		MediaType:   models.MediaTypeJSON,
	})
	catalog, itemsDist := scraper.GetOrRegister(catalog, models.Distribution{
		Title:       models.DistributionItems,
		DownloadURL: p.Config.Catalog.ItemsURL,
		MediaType:   models.MediaTypeJSON,
	})

	raw, err := p.fetch(ctx, result.RunID, datasetDist)
	if err != nil {
		return result, err
	}
	mapped, err := transform.MapColumns(raw, transform.ObservationColumns)
	if err != nil {
		return result, fmt.Errorf("failed to map observation columns: %w", err)
	}

	items, err := p.fetch(ctx, result.RunID, itemsDist)
	if err != nil {
		return result, err
	}
	for _, spec := range transform.Codelists {
		entries, err := transform.ExtractCodelist(items, spec.Dimension)
		if err != nil {
			return result, err
		}
		path := filepath.Join(outDir, spec.Name+".csv")
		if err := writer.WriteCodelist(path, entries); err != nil {
			return result, err
		}
		result.CodelistRows[spec.Name] = len(entries)
		result.Files = append(result.Files, path)
		log.Printf("Service: wrote %d %s codelist entries to %s", len(entries), spec.Dimension, path)
	}

	observations, report, err := transform.NormalizeObservations(mapped, transform.Options{
		StrictLookups: p.Config.Transform.StrictLookups,
	})
	if err != nil {
		return result, fmt.Errorf("failed to normalize observations: %w", err)
	}
	result.UnmappedLengths = report.UnmappedLengths

	unique := transform.DedupeObservations(observations)
	result.ObservationRows = len(unique)
	result.DuplicatesDropped = len(observations) - len(unique)

	obsPath := filepath.Join(outDir, observationsFile)
	if err := writer.WriteObservations(obsPath, unique); err != nil {
		return result, err
	}
	schemaPath := filepath.Join(outDir, schemaFile)
	if err := writer.WriteTableSchema(obsPath, schemaPath, p.Config.Output.CSVWBase); err != nil {
		return result, err
	}
	result.Files = append(result.Files, obsPath, schemaPath)
	log.Printf("Service: wrote %d observations (%d duplicates dropped) to %s", result.ObservationRows, result.DuplicatesDropped, obsPath)

	dataset := catalog.Dataset
	dataset.Family = p.Config.Metadata.Family
	dataset.Theme = p.Config.Metadata.Theme
	dataset.Publisher = p.Config.Metadata.Publisher
	dataset.Creator = dataset.Publisher
	modified := now().UTC()
	dataset.Modified = &modified

	trigPath := filepath.Join(outDir, metadataFile)
	if err := writer.WriteTrig(trigPath, dataset); err != nil {
		return result, err
	}
	result.Files = append(result.Files, trigPath)

	log.Printf("Service: run %s finished, %d files written", result.RunID, len(result.Files))
	return result, nil
}

// fetch downloads a distribution and records its provenance when a Store is configured.
func (p *Pipeline) fetch(ctx context.Context, runID string, dist models.Distribution) (models.Table, error) {
	log.Printf("Service: downloading %s distribution from %s", dist.Title, dist.DownloadURL)
	table, responses, err := scraper.FetchTable(ctx, p.Client, dist)
	if err != nil {
		return models.Table{}, err
	}

	if p.Store != nil {
		version := sourceVersion(runID, dist, table, responses)
		if err := p.Store.LogDataSourceVersion(ctx, version); err != nil {
			// Provenance is informational; the outputs do not depend on it.
			log.Printf("WARN Service: could not record %s fetch: %v", dist.Title, err)
		}
	}
	return table, nil
}

func sourceVersion(runID string, dist models.Distribution, table models.Table, responses []*scraper.Response) models.DataSourceVersion {
	h := sha256.New()
	fromCache := len(responses) > 0
	var fetchedAt time.Time
	for _, r := range responses {
		h.Write(r.Body)
		fromCache = fromCache && r.FromCache
		if r.FetchedAt.After(fetchedAt) {
			fetchedAt = r.FetchedAt
		}
	}
	return models.DataSourceVersion{
		RunID:         runID,
		SourceName:    dist.Title,
		SourceFileURL: dist.DownloadURL,
		Pages:         len(responses),
		RowCount:      len(table.Rows),
		DataHash:      hex.EncodeToString(h.Sum(nil)),
		FromCache:     fromCache,
		FetchedAt:     fetchedAt,
	}
}
