package openfoodfacts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/macrolens/foodcore/internal/domain"
)

const kjPerKcal = 4.184

// MapToCanonical converts an Open Food Facts product into a CanonicalFoodItem.
// Products without any usable name are rejected.
func MapToCanonical(p *domain.OFFProduct) (domain.CanonicalFoodItem, bool) {
	if p == nil {
		return domain.CanonicalFoodItem{}, false
	}
	// the code is both the id and the GTIN
	code := strings.TrimSpace(p.Code)
	name := productName(p)
	if code == "" || name == "" {
		return domain.CanonicalFoodItem{}, false
	}

	return domain.CanonicalFoodItem{
		ID:              domain.SourceOpenFoodFacts.IDPrefix() + "-" + code,
		Name:            name,
		NormalizedName:  domain.NormalizeName(name),
		Category:        firstListEntry(p.Categories),
		Nutrition:       extractNutrition(p),
		Source:          domain.SourceOpenFoodFacts,
		SourceID:        code,
		BrandOwner:      strings.TrimSpace(p.BrandOwner),
		BrandName:       firstListEntry(p.Brands),
		GtinUpc:         code,
		Ingredients:     strings.TrimSpace(p.IngredientsText),
		PackageWeight:   strings.TrimSpace(p.Quantity),
		ImageURL:        imageURL(p),
		NutriscoreGrade: nutriscoreGrade(p.NutriscoreGrade),
		NovaGroup:       novaGroup(p.NovaGroup),
	}, true
}

// productName returns the best available name:
// product_name → product_name_en → generic_name
func productName(p *domain.OFFProduct) string {
	for _, candidate := range []string{p.ProductName, p.ProductNameEn, p.GenericName} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return ""
}

// extractNutrition reads per-100g values from the loosely typed nutriments map
func extractNutrition(p *domain.OFFProduct) domain.Nutrition {
	n := domain.Nutrition{
		ServingSize: strings.TrimSpace(p.ServingSize),
	}

	if v, ok := extractFloat(p.Nutriments, "energy-kcal_100g"); ok {
		n.Calories = v
	} else if v, ok := extractFloat(p.Nutriments, "energy-kj_100g"); ok {
		n.Calories = math.Round(v/kjPerKcal*10) / 10
	}
	if v, ok := extractFloat(p.Nutriments, "proteins_100g"); ok {
		n.Protein = v
	}
	if v, ok := extractFloat(p.Nutriments, "carbohydrates_100g"); ok {
		n.Carbs = v
	}
	if v, ok := extractFloat(p.Nutriments, "fat_100g"); ok {
		n.Fat = v
	}
	if v, ok := extractFloat(p.Nutriments, "fiber_100g"); ok {
		n.Fiber = &v
	}
	if v, ok := extractFloat(p.Nutriments, "sugars_100g"); ok {
		n.Sugar = &v
	}
	// sodium is reported in grams
	if v, ok := extractFloat(p.Nutriments, "sodium_100g"); ok {
		mg := math.Round(v * 1000)
		n.Sodium = &mg
	}

	return n
}

// extractFloat coerces a nutriments map value to float64
func extractFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func imageURL(p *domain.OFFProduct) string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	return p.ImageFrontURL
}

// nutriscoreGrade keeps only real grades a-e
func nutriscoreGrade(grade string) string {
	g := strings.ToLower(strings.TrimSpace(grade))
	if len(g) == 1 && g[0] >= 'a' && g[0] <= 'e' {
		return g
	}
	return ""
}

// novaGroup keeps only NOVA groups 1-4
func novaGroup(v any) *int {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || f < 1 || f > 4 {
		return nil
	}
	g := int(f)
	return &g
}

// firstListEntry returns the first entry of an OFF comma separated list
func firstListEntry(list string) string {
	first, _, _ := strings.Cut(list, ",")
	return strings.TrimSpace(first)
}
