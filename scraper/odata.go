// backend/scraper/odata.go
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/gewnthar/vacancies/backend/models"
)

// ErrUnsupportedMediaType is returned for distributions this scraper cannot decode.
var ErrUnsupportedMediaType = errors.New("unsupported distribution media type")

// odataPage is one page of an OData v3 JSON feed.
type odataPage struct {
	Value    []map[string]any `json:"value"`
	NextLink string           `json:"odata.nextLink"`
}

// FetchTable downloads every page of a JSON distribution and returns the combined table
// along with the responses it was built from.
func FetchTable(ctx context.Context, client *Client, dist models.Distribution) (models.Table, []*Response, error) {
	if dist.MediaType != models.MediaTypeJSON {
		return models.Table{}, nil, fmt.Errorf("%w: %q for distribution %q", ErrUnsupportedMediaType, dist.MediaType, dist.Title)
	}
	if dist.DownloadURL == "" {
		return models.Table{}, nil, fmt.Errorf("distribution %q has no download URL", dist.Title)
	}

	var (
		rows      []models.Record
		responses []*Response
		seen      = map[string]bool{}
		next      = dist.DownloadURL
	)
	for next != "" {
		if seen[next] {
			return models.Table{}, nil, fmt.Errorf("distribution %q: page link %s repeats", dist.Title, next)
		}
		seen[next] = true

		res, err := client.Get(ctx, next)
		if err != nil {
			return models.Table{}, nil, fmt.Errorf("failed to download distribution %q: %w", dist.Title, err)
		}
		responses = append(responses, res)

		page, err := decodeODataPage(res.Body)
		if err != nil {
			return models.Table{}, nil, fmt.Errorf("failed to decode distribution %q page %s: %w", dist.Title, next, err)
		}
		for _, item := range page.Value {
			rows = append(rows, flattenRecord(item))
		}
		next = page.NextLink
	}

	table := models.Table{Columns: columnsOf(rows), Rows: rows}
	log.Printf("Scraper: distribution %q has %d rows over %d page(s)", dist.Title, len(rows), len(responses))
	return table, responses, nil
}

func decodeODataPage(body []byte) (odataPage, error) {
	var page odataPage
	dec := json.NewDecoder(bytes.NewReader(body))
	// Keep numbers as their source text so that "3.0" stays distinguishable from "3".
	dec.UseNumber()
	if err := dec.Decode(&page); err != nil {
		return odataPage{}, err
	}
	return page, nil
}

// flattenRecord keeps scalar values and serializes nested objects/arrays as JSON strings.
func flattenRecord(m map[string]any) models.Record {
	rec := make(models.Record, len(m))
	for k, v := range m {
		switch v.(type) {
		case string, json.Number, bool, nil:
			rec[k] = v
		default:
			b, _ := json.Marshal(v)
			rec[k] = string(b)
		}
	}
	return rec
}

func columnsOf(rows []models.Record) []string {
	set := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			set[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
