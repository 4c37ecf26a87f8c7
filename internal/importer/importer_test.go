package importer

import (
	"context"
	"strings"
	"testing"

	"artgallery-storefront/internal/domain"
	productrepo "artgallery-storefront/internal/repository/product"
	userrepo "artgallery-storefront/internal/repository/user"
	"artgallery-storefront/internal/service/catalog"
)

type stubWriter struct {
	items []domain.ProductDraft
}

func (s *stubWriter) CreateProduct(_ context.Context, d domain.ProductDraft) (*domain.Product, error) {
	s.items = append(s.items, d)
	return &domain.Product{Name: d.Name}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,description,price,category,image_url,is_sold_out,artist_note
Moonlit Harbor,Oil on linen,48000.00,painting,https://example.com/harbor.jpg,false,Painted over three winters
,,,,,,
Paper Cranes,Ink study,₹5200,Sketch,https://example.com/cranes.jpg,true,`

	w := &stubWriter{}
	count, err := NewCSVImporter(strings.NewReader(csvData), w).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 || len(w.items) != 2 {
		t.Fatalf("expected 2 products imported, got %d (%d saved)", count, len(w.items))
	}

	first := w.items[0]
	if first.Name != "Moonlit Harbor" || first.Category != domain.CategoryPainting || first.Price.String() != "48000" || first.IsSoldOut {
		t.Fatalf("unexpected first product: %+v", first)
	}
	if first.ArtistNote == nil || *first.ArtistNote != "Painted over three winters" {
		t.Fatalf("expected artist note on first product, got %v", first.ArtistNote)
	}

	second := w.items[1]
	if second.Price.String() != "5200" || !second.IsSoldOut || second.ArtistNote != nil {
		t.Fatalf("unexpected second product: %+v", second)
	}
}

func TestCSVImporter_MissingColumn(t *testing.T) {
	csvData := `name,description,category,image_url
Moonlit Harbor,Oil on linen,Painting,https://example.com/harbor.jpg`

	_, err := NewCSVImporter(strings.NewReader(csvData), &stubWriter{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), `"price"`) {
		t.Fatalf("expected missing price column error, got %v", err)
	}
}

func TestCSVImporter_BadRowStops(t *testing.T) {
	csvData := `name,description,price,category,image_url
Moonlit Harbor,Oil on linen,48000,Painting,https://example.com/harbor.jpg
Clay Owl,Stoneware,cheap,Craft,https://example.com/owl.jpg
Paper Cranes,Ink study,5200,Sketch,https://example.com/cranes.jpg`

	w := &stubWriter{}
	count, err := NewCSVImporter(strings.NewReader(csvData), w).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "row 3") {
		t.Fatalf("expected row 3 error, got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 product before failure, got %d", count)
	}
}

func TestCSVImporter_UnknownCategory(t *testing.T) {
	csvData := `name,description,price,category,image_url
Marble Bust,Carved,90000,Sculpture,https://example.com/bust.jpg`

	_, err := NewCSVImporter(strings.NewReader(csvData), &stubWriter{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "Sculpture") {
		t.Fatalf("expected unknown category error, got %v", err)
	}
}

func TestCSVImporter_IntoCatalog(t *testing.T) {
	products := productrepo.NewMemory()
	svc := catalog.New(products, userrepo.NewMemory(), nil)
	csvData := `name,description,price,category,image_url
Moonlit Harbor,Oil on linen,48000,Painting,https://example.com/harbor.jpg
Bad Link,Oil on linen,100,Painting,not-a-url`

	count, err := NewCSVImporter(strings.NewReader(csvData), svc).Run(context.Background())
	if err == nil {
		t.Fatalf("expected validation error for invalid image url")
	}
	if count != 1 {
		t.Fatalf("expected 1 imported, got %d", count)
	}
	list, err := svc.FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Moonlit Harbor" {
		t.Fatalf("unexpected catalog: %+v", list)
	}
}
