package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolens/foodcore/internal/domain"
)

func ptr(s string) *string { return &s }

func TestParseAnalysisResponse_NoContent(t *testing.T) {
	for _, content := range []*string{nil, ptr("")} {
		result := ParseAnalysisResponse(content)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "No response content")
		assert.Nil(t, result.Data)
	}
}

func TestParseAnalysisResponse_InvalidJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"broken", "not valid json {"},
		{"array at top level", `[{"name":"x"}]`},
		{"trailing data", `{"items":[]} {"items":[]}`},
		{"string at top level", `"hello"`},
		{"whitespace only", "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseAnalysisResponse(ptr(tt.content))
			assert.False(t, result.Success)
			assert.Contains(t, result.Error, "parse")
		})
	}
}

func TestParseAnalysisResponse_KeepsWhitespaceName(t *testing.T) {
	content := `{"items":[{"name":"  ","category":"dairy","quantity":1,"quantityUnit":"items","storageLocation":"refrigerator","shelfLifeDays":7,"confidence":0.9}]}`

	result := ParseAnalysisResponse(&content)
	require.True(t, result.Success)
	assert.False(t, result.Normalized)
	require.Len(t, result.Data.Items, 1)
	assert.Equal(t, "  ", result.Data.Items[0].Name)
}

func TestParseAnalysisResponse_ClampsOverflowingNumbers(t *testing.T) {
	content := `{"items":[{"name":"Rice","shelfLifeDays":1e400,"confidence":-1e400}]}`

	result := ParseAnalysisResponse(&content)
	require.True(t, result.Success)
	assert.True(t, result.Normalized)
	require.Len(t, result.Data.Items, 1)
	assert.Equal(t, 365, result.Data.Items[0].ShelfLifeDays)
	assert.Equal(t, 0.0, result.Data.Items[0].Confidence)
}

func TestParseAnalysisResponse_CorrectsOutOfRangeFields(t *testing.T) {
	content := `{"items":[{"name":"Test Item","category":"invalid_category","quantity":-5,"quantityUnit":"invalid_unit","storageLocation":"invalid_location","shelfLifeDays":0,"confidence":1.5}]}`

	result := ParseAnalysisResponse(&content)
	require.True(t, result.Success)
	assert.True(t, result.Normalized)
	require.NotNil(t, result.Data)
	require.Len(t, result.Data.Items, 1)

	assert.Equal(t, domain.AnalysisItem{
		Name:            "Test Item",
		Category:        "other",
		Quantity:        0,
		QuantityUnit:    "items",
		StorageLocation: "refrigerator",
		ShelfLifeDays:   1,
		Confidence:      1,
	}, result.Data.Items[0])
}

func TestParseAnalysisResponse_ValidItemsAreNotNormalized(t *testing.T) {
	content := `{
		"items": [
			{"name":"Whole Milk","category":"dairy","quantity":1,"quantityUnit":"bottle","storageLocation":"refrigerator","shelfLifeDays":7,"confidence":0.92},
			{"name":"Bananas","category":"produce","quantity":6,"quantityUnit":"items","storageLocation":"counter","shelfLifeDays":5,"confidence":0.8}
		],
		"notes": "Two items visible"
	}`

	result := ParseAnalysisResponse(&content)
	require.True(t, result.Success)
	assert.False(t, result.Normalized)
	require.Len(t, result.Data.Items, 2)
	assert.Equal(t, "Whole Milk", result.Data.Items[0].Name)
	assert.Equal(t, 0.92, result.Data.Items[0].Confidence)
	assert.Equal(t, "counter", result.Data.Items[1].StorageLocation)
	assert.Equal(t, "Two items visible", result.Data.Notes)
}

func TestParseAnalysisResponse_ItemsShape(t *testing.T) {
	t.Run("missing items", func(t *testing.T) {
		result := ParseAnalysisResponse(ptr(`{"error":"image too dark"}`))
		require.True(t, result.Success)
		assert.Empty(t, result.Data.Items)
		assert.NotNil(t, result.Data.Items)
		assert.Equal(t, "image too dark", result.Data.Error)
		assert.False(t, result.Normalized)
	})

	t.Run("items not an array", func(t *testing.T) {
		result := ParseAnalysisResponse(ptr(`{"items":"milk"}`))
		require.True(t, result.Success)
		assert.Empty(t, result.Data.Items)
	})

	t.Run("item not an object", func(t *testing.T) {
		result := ParseAnalysisResponse(ptr(`{"items":[42]}`))
		require.True(t, result.Success)
		assert.True(t, result.Normalized)
		require.Len(t, result.Data.Items, 1)
		assert.Equal(t, domain.AnalysisItem{
			Name:            "Unknown Item",
			Category:        "other",
			Quantity:        1,
			QuantityUnit:    "items",
			StorageLocation: "refrigerator",
			ShelfLifeDays:   7,
			Confidence:      0.5,
		}, result.Data.Items[0])
	})

	t.Run("null fields", func(t *testing.T) {
		result := ParseAnalysisResponse(ptr(`{"items":[{"name":"Eggs","quantity":null,"shelfLifeDays":null,"confidence":null}]}`))
		require.True(t, result.Success)
		assert.True(t, result.Normalized)
		item := result.Data.Items[0]
		assert.Equal(t, 0.0, item.Quantity)
		assert.Equal(t, 1, item.ShelfLifeDays)
		assert.Equal(t, 0.0, item.Confidence)
	})
}

func TestParseAnalysisResponse_CodeFence(t *testing.T) {
	content := "```json\n{\"items\":[{\"name\":\"Cheese\",\"category\":\"DAIRY\",\"quantity\":1,\"quantityUnit\":\"box\",\"storageLocation\":\"refrigerator\",\"shelfLifeDays\":30,\"confidence\":0.7}]}\n```"

	result := ParseAnalysisResponse(&content)
	require.True(t, result.Success)
	require.Len(t, result.Data.Items, 1)
	assert.Equal(t, "dairy", result.Data.Items[0].Category)
	assert.True(t, result.Normalized)
}

func TestParseAnalysisResponse_IsIdempotent(t *testing.T) {
	content := `{"items":[{"name":"Test Item","category":"Meat","quantity":"2","shelfLifeDays":3.4,"confidence":7}]}`

	first := ParseAnalysisResponse(&content)
	require.True(t, first.Success)
	assert.True(t, first.Normalized)

	reencoded := `{"items":[{"name":"Test Item","category":"meat","quantity":2,"quantityUnit":"items","storageLocation":"refrigerator","shelfLifeDays":3,"confidence":1}]}`
	second := ParseAnalysisResponse(&reencoded)
	require.True(t, second.Success)
	assert.False(t, second.Normalized)
	assert.Equal(t, first.Data.Items, second.Data.Items)
}
