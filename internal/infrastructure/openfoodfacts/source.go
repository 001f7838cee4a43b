package openfoodfacts

import (
	"context"

	"github.com/macrolens/foodcore/internal/domain"
)

// Source exposes the Open Food Facts client to the search and barcode services
type Source struct {
	client *Client
}

// NewSource wraps an Open Food Facts client
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// Name implements domain.FoodSource
func (s *Source) Name() domain.Source {
	return domain.SourceOpenFoodFacts
}

// Search implements domain.FoodSource. Products without a name are dropped.
func (s *Source) Search(ctx context.Context, query string, limit int) []domain.CanonicalFoodItem {
	products := s.client.SearchProducts(ctx, query, limit)

	items := make([]domain.CanonicalFoodItem, 0, len(products))
	for i := range products {
		if item, ok := MapToCanonical(&products[i]); ok {
			items = append(items, item)
		}
	}
	return items
}

// LookupBarcode implements domain.BarcodeSource
func (s *Source) LookupBarcode(ctx context.Context, barcode string) (*domain.CanonicalFoodItem, error) {
	product, err := s.client.LookupProduct(ctx, barcode)
	if err != nil || product == nil {
		return nil, err
	}
	return mapped(product), nil
}

// ProductByBarcode implements domain.ProductEnricher. Nameless products still
// carry presentation fields, so they are returned partially filled.
func (s *Source) ProductByBarcode(ctx context.Context, barcode string) *domain.CanonicalFoodItem {
	product := s.client.GetProduct(ctx, barcode)
	if product == nil {
		return nil
	}
	if item := mapped(product); item != nil {
		return item
	}
	return &domain.CanonicalFoodItem{
		Source:          domain.SourceOpenFoodFacts,
		SourceID:        product.Code,
		ImageURL:        imageURL(product),
		NutriscoreGrade: nutriscoreGrade(product.NutriscoreGrade),
		NovaGroup:       novaGroup(product.NovaGroup),
	}
}

func mapped(product *domain.OFFProduct) *domain.CanonicalFoodItem {
	item, ok := MapToCanonical(product)
	if !ok {
		return nil
	}
	return &item
}
