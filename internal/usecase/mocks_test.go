package usecase

import (
	"context"
	"sync"

	"github.com/macrolens/foodcore/internal/domain"
)

// MockFoodSource is a mock implementation of domain.FoodSource
type MockFoodSource struct {
	name  domain.Source
	items []domain.CanonicalFoodItem

	// hook runs at the start of every Search call
	hook func()

	mu        sync.Mutex
	calls     int
	lastQuery string
	lastLimit int
}

func NewMockFoodSource(name domain.Source, items ...domain.CanonicalFoodItem) *MockFoodSource {
	return &MockFoodSource{name: name, items: items}
}

func (m *MockFoodSource) Name() domain.Source { return m.name }

func (m *MockFoodSource) Search(ctx context.Context, query string, limit int) []domain.CanonicalFoodItem {
	if m.hook != nil {
		m.hook()
	}

	m.mu.Lock()
	m.calls++
	m.lastQuery = query
	m.lastLimit = limit
	m.mu.Unlock()

	out := make([]domain.CanonicalFoodItem, len(m.items))
	copy(out, m.items)
	return out
}

func (m *MockFoodSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockBarcodeSource is a mock implementation of domain.BarcodeSource
type MockBarcodeSource struct {
	name  domain.Source
	items map[string]domain.CanonicalFoodItem
	err   error

	calls []string
}

func NewMockBarcodeSource(name domain.Source) *MockBarcodeSource {
	return &MockBarcodeSource{name: name, items: map[string]domain.CanonicalFoodItem{}}
}

func (m *MockBarcodeSource) Name() domain.Source { return m.name }

func (m *MockBarcodeSource) LookupBarcode(ctx context.Context, barcode string) (*domain.CanonicalFoodItem, error) {
	m.calls = append(m.calls, barcode)
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[barcode]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// MockEnricher is a mock implementation of domain.ProductEnricher
type MockEnricher struct {
	products map[string]domain.CanonicalFoodItem

	mu    sync.Mutex
	calls []string
}

func NewMockEnricher() *MockEnricher {
	return &MockEnricher{products: map[string]domain.CanonicalFoodItem{}}
}

func (m *MockEnricher) ProductByBarcode(ctx context.Context, barcode string) *domain.CanonicalFoodItem {
	m.mu.Lock()
	m.calls = append(m.calls, barcode)
	m.mu.Unlock()

	p, ok := m.products[barcode]
	if !ok {
		return nil
	}
	return &p
}

func (m *MockEnricher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockImageAnalyzer is a mock implementation of domain.ImageAnalyzer
type MockImageAnalyzer struct {
	content  *string
	err      error
	gotMime  string
	gotBytes int
}

func (m *MockImageAnalyzer) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*string, error) {
	m.gotMime = mimeType
	m.gotBytes = len(data)
	return m.content, m.err
}

func food(source domain.Source, id, name string) domain.CanonicalFoodItem {
	return domain.CanonicalFoodItem{
		ID:             source.IDPrefix() + "-" + id,
		Name:           name,
		NormalizedName: domain.NormalizeName(name),
		Source:         source,
		SourceID:       id,
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
