package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/macrolens/foodcore/internal/domain"
)

// Relevance tiers, highest first
const (
	relevanceExact     = 100
	relevancePrefix    = 80
	relevanceWholeWord = 60
	relevanceSubstring = 40
	relevanceNone      = 20
)

// Completeness weights (sum to 100)
const (
	weightMacro       = 10 // each of calories, protein, carbs, fat
	weightMicro       = 5  // each of fiber, sugar, sodium
	weightBrand       = 10
	weightImage       = 15
	weightIngredients = 10
	weightServingSize = 10

	maxCompleteness = 4*weightMacro + 3*weightMicro + weightBrand + weightImage + weightIngredients + weightServingSize
)

// RelevanceScore rates how well a normalized item name matches a normalized query
func RelevanceScore(normalizedName, normalizedQuery string) int {
	switch {
	case normalizedQuery == "":
		return relevanceNone
	case normalizedName == normalizedQuery:
		return relevanceExact
	case strings.HasPrefix(normalizedName, normalizedQuery):
		return relevancePrefix
	case containsWord(normalizedName, normalizedQuery):
		return relevanceWholeWord
	case strings.Contains(normalizedName, normalizedQuery):
		return relevanceSubstring
	default:
		return relevanceNone
	}
}

// DataCompleteness rates how much descriptive data an item carries, in [0,100]
func DataCompleteness(item *domain.CanonicalFoodItem) int {
	n := item.Nutrition
	score := 0

	for _, macro := range []float64{n.Calories, n.Protein, n.Carbs, n.Fat} {
		if macro > 0 {
			score += weightMacro
		}
	}
	for _, micro := range []*float64{n.Fiber, n.Sugar, n.Sodium} {
		if micro != nil {
			score += weightMicro
		}
	}
	if item.BrandName != "" || item.BrandOwner != "" {
		score += weightBrand
	}
	if item.ImageURL != "" {
		score += weightImage
	}
	if item.Ingredients != "" {
		score += weightIngredients
	}
	if n.ServingSize != "" || item.HouseholdServingFullText != "" {
		score += weightServingSize
	}

	return score * 100 / maxCompleteness
}

// containsWord reports whether word occurs in s bounded by non-alphanumerics
func containsWord(s, word string) bool {
	for offset := 0; offset <= len(s)-len(word); {
		i := strings.Index(s[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
