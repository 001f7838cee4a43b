package usda

import (
	"context"

	"github.com/macrolens/foodcore/internal/domain"
)

// Source exposes the USDA client to the search and barcode services
type Source struct {
	client *Client
}

// NewSource wraps a USDA client
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// Name implements domain.FoodSource
func (s *Source) Name() domain.Source {
	return domain.SourceUSDA
}

// Search implements domain.FoodSource. Foods without a description are dropped.
func (s *Source) Search(ctx context.Context, query string, limit int) []domain.CanonicalFoodItem {
	foods := s.client.SearchFoods(ctx, query, limit)

	items := make([]domain.CanonicalFoodItem, 0, len(foods))
	for i := range foods {
		if item, ok := MapToCanonical(&foods[i]); ok {
			items = append(items, item)
		}
	}
	return items
}

// LookupBarcode implements domain.BarcodeSource
func (s *Source) LookupBarcode(ctx context.Context, barcode string) (*domain.CanonicalFoodItem, error) {
	food, err := s.client.GetFoodByBarcode(ctx, barcode)
	if err != nil || food == nil {
		return nil, err
	}

	item, ok := MapToCanonical(food)
	if !ok {
		return nil, nil
	}
	return &item, nil
}
