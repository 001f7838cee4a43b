package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macrolens/foodcore/internal/domain"
)

func TestRelevanceScore(t *testing.T) {
	tests := []struct {
		name  string
		item  string
		query string
		want  int
	}{
		{"exact", "apple", "apple", 100},
		{"prefix", "apple juice", "apple", 80},
		{"prefix inside word", "applesauce", "apple", 80},
		{"whole word", "green apple", "apple", 60},
		{"whole word with punctuation", "juice, apple, unsweetened", "apple", 60},
		{"substring", "pineapple", "apple", 40},
		{"no match", "banana", "apple", 20},
		{"multi word query", "raw green apple slices", "green apple", 60},
		{"repeated partial then word", "pineapple apple", "apple", 60},
		{"empty query", "banana", "", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelevanceScore(tt.item, tt.query))
		})
	}
}

func TestDataCompleteness(t *testing.T) {
	t.Run("empty item", func(t *testing.T) {
		assert.Equal(t, 0, DataCompleteness(&domain.CanonicalFoodItem{}))
	})

	t.Run("complete item", func(t *testing.T) {
		item := domain.CanonicalFoodItem{
			Nutrition: domain.Nutrition{
				Calories: 52, Protein: 0.3, Carbs: 14, Fat: 0.2,
				Fiber: floatPtr(2.4), Sugar: floatPtr(10), Sodium: floatPtr(1),
				ServingSize: "100 g",
			},
			BrandName:   "Orchard",
			ImageURL:    "https://img/apple.jpg",
			Ingredients: "apple",
		}
		assert.Equal(t, 100, DataCompleteness(&item))
	})

	t.Run("macros only", func(t *testing.T) {
		item := domain.CanonicalFoodItem{
			Nutrition: domain.Nutrition{Calories: 52, Protein: 0.3, Carbs: 14, Fat: 0.2},
		}
		assert.Equal(t, 40, DataCompleteness(&item))
	})

	t.Run("zero micros still count as present", func(t *testing.T) {
		item := domain.CanonicalFoodItem{
			Nutrition: domain.Nutrition{Fiber: floatPtr(0), Sugar: floatPtr(0), Sodium: floatPtr(0)},
		}
		assert.Equal(t, 15, DataCompleteness(&item))
	})

	t.Run("does not depend on query fields", func(t *testing.T) {
		a := domain.CanonicalFoodItem{ImageURL: "x", RelevanceScore: 100}
		b := domain.CanonicalFoodItem{ImageURL: "x", RelevanceScore: 20}
		assert.Equal(t, DataCompleteness(&a), DataCompleteness(&b))
	})
}
