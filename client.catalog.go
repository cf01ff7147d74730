package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// bookRecord mirrors one row of the spreadsheet-backed catalog source.
// Every field except title and author is optional on the wire.
type bookRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Summary  string `json:"summary"`
	Genre    string `json:"genre"`
	Location string `json:"location"`
	Price    *int64 `json:"price"`
	Discount *int   `json:"discount"`
	Image    string `json:"image"`
}

// sheetBookSource implements BookSource on top of the spreadsheet-backed
// catalog endpoint.
type sheetBookSource struct {
	logger *zap.Logger
	config *CatalogConfig
	ids    UIDHandler
	client *http.Client
}

// NewSheetBookSource provides a catalog source reading from the
// configured spreadsheet-backed endpoint.
func NewSheetBookSource(logger *zap.Logger, config *CatalogConfig, ids UIDHandler) BookSource {
	return &sheetBookSource{
		logger: logger,
		config: config,
		ids:    ids,
		client: &http.Client{Timeout: config.RequestTimeout},
	}
}

// Fetch downloads and normalizes the list of book records published
// under the given source identifier.
func (sb *sheetBookSource) Fetch(ctx context.Context, sourceID string) ([]Book, error) {
	endpoint := fmt.Sprintf("%s?source=%s", sb.config.SourceURL, url.QueryEscape(sourceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := sb.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog source call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source answered with status %d", resp.StatusCode)
	}

	records := []bookRecord{}
	if err = json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("catalog source sent unparsable payload: %w", err)
	}

	books := make([]Book, 0, len(records))
	for _, record := range records {
		books = append(books, sb.normalize(record))
	}
	return books, nil
}

// normalize fills the defaults of a raw catalog row: a missing id is
// synthesized, missing textual fields stay empty, a missing price reads
// as 0 and the discount is clamped into [0,100].
func (sb *sheetBookSource) normalize(record bookRecord) Book {
	book := Book{
		ID:       record.ID,
		Title:    record.Title,
		Author:   record.Author,
		Summary:  record.Summary,
		Genre:    record.Genre,
		Location: record.Location,
		ImageRef: record.Image,
	}

	if book.ID == "" {
		book.ID = sb.ids.Generate(BookIDPrefix)
	}

	if record.Price != nil && *record.Price > 0 {
		book.Price = *record.Price
	}

	if record.Discount != nil {
		switch {
		case *record.Discount < 0:
			book.DiscountPercent = 0
		case *record.Discount > 100:
			book.DiscountPercent = 100
		default:
			book.DiscountPercent = *record.Discount
		}
	}
	return book
}
