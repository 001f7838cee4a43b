package domain

import (
	"context"
	"time"
)

// CacheRepository defines the key-value TTL cache shared by the source clients.
// Values are opaque byte snapshots; Get returns ErrCacheMiss for absent or expired keys.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Invalidate removes every key starting with prefix; an empty prefix clears everything.
	Invalidate(ctx context.Context, prefix string) error
}

// FoodSource is a searchable upstream nutrition database paired with its mapper.
// Search never fails: upstream problems degrade to an empty slice.
type FoodSource interface {
	Name() Source
	Search(ctx context.Context, query string, limit int) []CanonicalFoodItem
}

// BarcodeSource resolves a single product by cleaned barcode.
// A nil item with a nil error means not found.
type BarcodeSource interface {
	Name() Source
	LookupBarcode(ctx context.Context, barcode string) (*CanonicalFoodItem, error)
}

// ProductEnricher supplies optional presentation data for a barcode.
// Failures are reported as nil.
type ProductEnricher interface {
	ProductByBarcode(ctx context.Context, barcode string) *CanonicalFoodItem
}

// ImageAnalyzer runs AI vision analysis and returns the raw model text (nil if none)
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*string, error)
}
