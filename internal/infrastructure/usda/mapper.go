package usda

import (
	"strconv"
	"strings"

	"github.com/macrolens/foodcore/internal/domain"
)

// USDA Nutrient IDs
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrates (g)
	NutrientIDTotalFat     = 1004 // Total Fat (g)
	NutrientIDFiber        = 1079 // Fiber, total dietary (g)
	NutrientIDSugars       = 2000 // Sugars, total including NLEA (g)
	NutrientIDSugarsNLEA   = 1063 // Sugars, Total NLEA (g), branded foods
	NutrientIDSodium       = 1093 // Sodium (mg)
)

// MapToCanonical converts a USDA food into a CanonicalFoodItem.
// Returns false for foods without a usable description.
func MapToCanonical(food *domain.USDAFood) (domain.CanonicalFoodItem, bool) {
	if food == nil {
		return domain.CanonicalFoodItem{}, false
	}
	name := strings.TrimSpace(food.Description)
	if name == "" {
		return domain.CanonicalFoodItem{}, false
	}

	sourceID := strconv.Itoa(food.FdcID)
	return domain.CanonicalFoodItem{
		ID:                       domain.SourceUSDA.IDPrefix() + "-" + sourceID,
		Name:                     name,
		NormalizedName:           domain.NormalizeName(name),
		Category:                 food.FoodCategory,
		Nutrition:                extractNutrition(food),
		Source:                   domain.SourceUSDA,
		SourceID:                 sourceID,
		BrandOwner:               food.BrandOwner,
		BrandName:                food.BrandName,
		GtinUpc:                  food.GtinUpc,
		HouseholdServingFullText: food.HouseholdServingFullText,
		DataType:                 food.DataType,
		Ingredients:              food.Ingredients,
		PackageWeight:            food.PackageWeight,
	}, true
}

// extractNutrition pulls the tracked nutrients out of the USDA nutrient list
func extractNutrition(food *domain.USDAFood) domain.Nutrition {
	n := domain.Nutrition{}

	for _, nutrient := range food.Nutrients {
		v := nutrient.Value
		switch nutrient.NutrientID {
		case NutrientIDEnergy:
			n.Calories = v
		case NutrientIDProtein:
			n.Protein = v
		case NutrientIDCarbohydrate:
			n.Carbs = v
		case NutrientIDTotalFat:
			n.Fat = v
		case NutrientIDFiber:
			n.Fiber = &v
		case NutrientIDSugars, NutrientIDSugarsNLEA:
			if n.Sugar == nil {
				n.Sugar = &v
			}
		case NutrientIDSodium:
			n.Sodium = &v
		}
	}

	if food.ServingSize > 0 {
		n.ServingSize = strings.TrimSpace(strconv.FormatFloat(food.ServingSize, 'f', -1, 64) + " " + food.ServingSizeUnit)
	}

	return n
}
