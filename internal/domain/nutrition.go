package domain

import (
	"strings"
	"unicode"
)

// Source identifies the upstream database a food item came from
type Source string

const (
	SourceUSDA          Source = "usda"
	SourceOpenFoodFacts Source = "openfoodfacts"
)

// IDPrefix returns the prefix used when building barcode-resolved item IDs
func (s Source) IDPrefix() string {
	if s == SourceOpenFoodFacts {
		return "off"
	}
	return string(s)
}

// CanonicalFoodItem is the unified food record regardless of origin
type CanonicalFoodItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalizedName"`
	Category       string    `json:"category"`
	Nutrition      Nutrition `json:"nutrition"`
	Source         Source    `json:"source"`
	SourceID       string    `json:"sourceId"`

	RelevanceScore   int `json:"relevanceScore"`   // 0-100, relative to a query
	DataCompleteness int `json:"dataCompleteness"` // 0-100, query independent

	BrandOwner               string `json:"brandOwner,omitempty"`
	BrandName                string `json:"brandName,omitempty"`
	GtinUpc                  string `json:"gtinUpc,omitempty"`
	HouseholdServingFullText string `json:"householdServingFullText,omitempty"`
	DataType                 string `json:"dataType,omitempty"`
	Ingredients              string `json:"ingredients,omitempty"`
	PackageWeight            string `json:"packageWeight,omitempty"`
	ImageURL                 string `json:"imageUrl,omitempty"`
	NutriscoreGrade          string `json:"nutriscoreGrade,omitempty"`
	NovaGroup                *int   `json:"novaGroup,omitempty"`
}

// Nutrition holds per-serving (or per-100g) nutrient values.
// The four macros default to 0; the rest are nil when the source has no value.
type Nutrition struct {
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"` // grams
	Carbs       float64  `json:"carbs"`   // grams
	Fat         float64  `json:"fat"`     // grams
	Fiber       *float64 `json:"fiber,omitempty"`
	Sugar       *float64 `json:"sugar,omitempty"`
	Sodium      *float64 `json:"sodium,omitempty"` // milligrams
	ServingSize string   `json:"servingSize,omitempty"`
}

// SearchResult is the fused output of a multi-source search
type SearchResult struct {
	Results    []CanonicalFoodItem `json:"results"`
	TotalCount int                 `json:"totalCount"`
	Sources    []string            `json:"sources"`
}

// BarcodeResult is the output of a barcode resolution
type BarcodeResult struct {
	Found  bool               `json:"found"`
	Source Source             `json:"source,omitempty"`
	Item   *CanonicalFoodItem `json:"item,omitempty"`
}

// NormalizeName lower-cases, trims and collapses internal whitespace.
// Two items with equal normalized names are treated as the same product.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// CleanBarcode strips every non-digit character from a raw barcode
func CleanBarcode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
