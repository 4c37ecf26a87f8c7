package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"artgallery-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
}

// CSVImporter reads artwork rows and adds them to the catalog.
type CSVImporter struct {
	reader *csv.Reader
	writer ProductWriter
}

func NewCSVImporter(r io.Reader, w ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, writer: w}
}

var requiredHeaders = []string{"name", "description", "price", "category", "image_url"}

// Run parses CSV rows and creates one product per row. Blank rows are skipped.
// The first invalid row stops the import.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			return 0, fmt.Errorf("missing column %q", h)
		}
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		draft, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if _, err := i.writer.CreateProduct(ctx, draft); err != nil {
			return imported, fmt.Errorf("row %d: create %q: %w", line, draft.Name, err)
		}
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.ProductDraft, error) {
	draft := domain.ProductDraft{
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "image_url"),
	}

	cat, ok := domain.ParseCategory(pick(record, index, "category"))
	if !ok {
		return draft, fmt.Errorf("unknown category %q", pick(record, index, "category"))
	}
	draft.Category = cat

	price, err := decimal.NewFromString(strings.TrimPrefix(pick(record, index, "price"), "₹"))
	if err != nil {
		return draft, fmt.Errorf("invalid price %q", pick(record, index, "price"))
	}
	draft.Price = price

	if raw := pick(record, index, "is_sold_out"); raw != "" {
		soldOut, err := strconv.ParseBool(raw)
		if err != nil {
			return draft, fmt.Errorf("invalid is_sold_out %q", raw)
		}
		draft.IsSoldOut = soldOut
	}
	if note := pick(record, index, "artist_note"); note != "" {
		draft.ArtistNote = &note
	}
	return draft, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
