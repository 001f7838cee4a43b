package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/macrolens/foodcore/internal/domain"
)

func TestBarcodeLookup_CleansBarcode(t *testing.T) {
	usda := NewMockBarcodeSource(domain.SourceUSDA)
	off := NewMockBarcodeSource(domain.SourceOpenFoodFacts)
	svc := NewBarcodeService([]domain.BarcodeSource{usda, off}, nil, zap.NewNop())

	_, err := svc.Lookup(context.Background(), "301-762-042-2003")
	require.NoError(t, err)

	assert.Equal(t, []string{"3017620422003"}, usda.calls)
	assert.Equal(t, []string{"3017620422003"}, off.calls)
}

func TestBarcodeLookup_RejectsEmptyBarcode(t *testing.T) {
	usda := NewMockBarcodeSource(domain.SourceUSDA)
	svc := NewBarcodeService([]domain.BarcodeSource{usda}, nil, nil)

	for _, raw := range []string{"", "---", "abc"} {
		_, err := svc.Lookup(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	}
	assert.Empty(t, usda.calls)
}

func TestBarcodeLookup_PrimaryWins(t *testing.T) {
	usda := NewMockBarcodeSource(domain.SourceUSDA)
	usda.items["0051500255162"] = food(domain.SourceUSDA, "1234", "Peanut Butter")
	off := NewMockBarcodeSource(domain.SourceOpenFoodFacts)
	svc := NewBarcodeService([]domain.BarcodeSource{usda, off}, nil, nil)

	result, err := svc.Lookup(context.Background(), "0051500255162")
	require.NoError(t, err)

	require.True(t, result.Found)
	assert.Equal(t, domain.SourceUSDA, result.Source)
	assert.Equal(t, "usda-0051500255162", result.Item.ID)
	assert.Equal(t, 100, result.Item.RelevanceScore)
	assert.Equal(t, "peanut butter", result.Item.NormalizedName)
	assert.Empty(t, off.calls, "secondary source is not consulted after a hit")
}

func TestBarcodeLookup_FallsBackToSecondary(t *testing.T) {
	usda := NewMockBarcodeSource(domain.SourceUSDA)
	off := NewMockBarcodeSource(domain.SourceOpenFoodFacts)
	nutella := food(domain.SourceOpenFoodFacts, "3017620422003", "Nutella")
	nutella.ImageURL = "https://img/nutella.jpg"
	off.items["3017620422003"] = nutella

	enricher := NewMockEnricher()
	svc := NewBarcodeService([]domain.BarcodeSource{usda, off}, enricher, nil)

	result, err := svc.Lookup(context.Background(), "3017620422003")
	require.NoError(t, err)

	require.True(t, result.Found)
	assert.Equal(t, domain.SourceOpenFoodFacts, result.Source)
	assert.Equal(t, "off-3017620422003", result.Item.ID)
	assert.Equal(t, 100, result.Item.RelevanceScore)
	assert.Equal(t, "3017620422003", result.Item.GtinUpc)
	assert.Equal(t, DataCompleteness(result.Item), result.Item.DataCompleteness)
	assert.Empty(t, enricher.Calls(), "Open Food Facts hits are not enriched")
}

func TestBarcodeLookup_NotFound(t *testing.T) {
	svc := NewBarcodeService([]domain.BarcodeSource{
		NewMockBarcodeSource(domain.SourceUSDA),
		NewMockBarcodeSource(domain.SourceOpenFoodFacts),
	}, nil, nil)

	result, err := svc.Lookup(context.Background(), "000")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Nil(t, result.Item)
	assert.Empty(t, result.Source)
}

func TestBarcodeLookup_ErrorsPropagate(t *testing.T) {
	t.Run("primary fails", func(t *testing.T) {
		usda := NewMockBarcodeSource(domain.SourceUSDA)
		usda.err = fmt.Errorf("%w: status 503", domain.ErrUpstreamUnavailable)
		off := NewMockBarcodeSource(domain.SourceOpenFoodFacts)
		svc := NewBarcodeService([]domain.BarcodeSource{usda, off}, nil, nil)

		result, err := svc.Lookup(context.Background(), "123")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		assert.Empty(t, off.calls)
	})

	t.Run("secondary fails after primary miss", func(t *testing.T) {
		off := NewMockBarcodeSource(domain.SourceOpenFoodFacts)
		off.err = fmt.Errorf("%w: timeout", domain.ErrUpstreamUnavailable)
		svc := NewBarcodeService([]domain.BarcodeSource{NewMockBarcodeSource(domain.SourceUSDA), off}, nil, nil)

		_, err := svc.Lookup(context.Background(), "123")
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		assert.Contains(t, err.Error(), "openfoodfacts")
	})
}

func TestBarcodeLookup_EnrichesPrimaryHit(t *testing.T) {
	usda := NewMockBarcodeSource(domain.SourceUSDA)
	usda.items["0051500255162"] = food(domain.SourceUSDA, "1234", "Peanut Butter")

	enricher := NewMockEnricher()
	enricher.products["0051500255162"] = domain.CanonicalFoodItem{
		ImageURL: "https://off/pb.jpg", NutriscoreGrade: "c", NovaGroup: intPtr(3),
	}

	svc := NewBarcodeService([]domain.BarcodeSource{usda}, enricher, nil)
	result, err := svc.Lookup(context.Background(), "0051500255162")
	require.NoError(t, err)

	assert.Equal(t, "https://off/pb.jpg", result.Item.ImageURL)
	assert.Equal(t, "c", result.Item.NutriscoreGrade)
	require.NotNil(t, result.Item.NovaGroup)
	assert.Equal(t, 3, *result.Item.NovaGroup)
	assert.Equal(t, 100, result.Item.RelevanceScore)
}
