package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/macrolens/foodcore/internal/domain"
)

const barcodeMatchScore = 100

// BarcodeService resolves a barcode through an ordered fallback chain of sources
type BarcodeService struct {
	chain    []domain.BarcodeSource
	enricher domain.ProductEnricher
	logger   *zap.Logger
}

// NewBarcodeService creates a barcode resolver. The first source in chain
// is asked first. enricher may be nil.
func NewBarcodeService(chain []domain.BarcodeSource, enricher domain.ProductEnricher, logger *zap.Logger) *BarcodeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BarcodeService{
		chain:    chain,
		enricher: enricher,
		logger:   logger.Named("barcode"),
	}
}

// Lookup cleans raw to digits and returns the first match along the chain.
// Upstream errors are returned, not swallowed: there is nothing left to fall back on.
func (s *BarcodeService) Lookup(ctx context.Context, raw string) (*domain.BarcodeResult, error) {
	barcode := domain.CleanBarcode(raw)
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	for _, src := range s.chain {
		item, err := src.LookupBarcode(ctx, barcode)
		if err != nil {
			return nil, fmt.Errorf("barcode lookup via %s: %w", src.Name(), err)
		}
		if item == nil {
			s.logger.Debug("barcode not found", zap.String("source", string(src.Name())), zap.String("barcode", barcode))
			continue
		}

		item.ID = src.Name().IDPrefix() + "-" + barcode
		item.Source = src.Name()
		item.RelevanceScore = barcodeMatchScore
		if item.NormalizedName == "" {
			item.NormalizedName = domain.NormalizeName(item.Name)
		}
		if item.GtinUpc == "" {
			item.GtinUpc = barcode
		}
		item.DataCompleteness = DataCompleteness(item)

		if s.enricher != nil && item.Source != domain.SourceOpenFoodFacts {
			enrichItem(ctx, s.enricher, item)
		}

		return &domain.BarcodeResult{Found: true, Source: item.Source, Item: item}, nil
	}

	return &domain.BarcodeResult{Found: false}, nil
}
