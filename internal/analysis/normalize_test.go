package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"valid", "dairy", "dairy"},
		{"upper case", "  PRODUCE ", "produce"},
		{"invalid string", "invalid_category", "other"},
		{"number", 42.0, "other"},
		{"null", nil, "other"},
		{"missing", Absent, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCategory(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, Categories, got)
		})
	}
}

func TestNormalizeQuantityUnitAndStorageLocation(t *testing.T) {
	assert.Equal(t, "lbs", NormalizeQuantityUnit("LBS"))
	assert.Equal(t, "items", NormalizeQuantityUnit("invalid_unit"))
	assert.Equal(t, "items", NormalizeQuantityUnit(Absent))

	assert.Equal(t, "freezer", NormalizeStorageLocation("Freezer"))
	assert.Equal(t, "refrigerator", NormalizeStorageLocation("invalid_location"))
	assert.Equal(t, "refrigerator", NormalizeStorageLocation(nil))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Milk", NormalizeName("Milk"))
	assert.Equal(t, "Unknown Item", NormalizeName(Absent))
	assert.Equal(t, "Unknown Item", NormalizeName(nil))
	assert.Equal(t, "Unknown Item", NormalizeName(""))
	assert.Equal(t, "   ", NormalizeName("   "), "non-empty strings pass through")
	assert.Equal(t, "Unknown Item", NormalizeName(7.0))
}

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"valid", json.Number("2.5"), 2.5},
		{"zero", 0.0, 0},
		{"negative", -5.0, 0},
		{"numeric string", "3", 3},
		{"non-numeric", "lots", 1},
		{"NaN", math.NaN(), 1},
		{"null", nil, 0},
		{"missing", Absent, 1},
		{"bool", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuantity(tt.input))
		})
	}
}

func TestNormalizeShelfLifeDays(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{"valid", json.Number("14"), 14},
		{"rounds", 3.6, 4},
		{"zero clamps up", 0.0, 1},
		{"negative clamps up", -20.0, 1},
		{"too large clamps down", 1000.0, 365},
		{"infinity", math.Inf(1), 365},
		{"overflowing number", json.Number("1e400"), 365},
		{"overflowing negative number", json.Number("-1e400"), 1},
		{"overflowing numeric string", "1e400", 365},
		{"underflowing number", json.Number("1e-400"), 1},
		{"NaN", math.NaN(), 7},
		{"non-numeric", "a week", 7},
		{"null clamps to one", nil, 1},
		{"missing", Absent, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeShelfLifeDays(tt.input))
		})
	}
}

func TestNormalizeConfidence(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"valid", json.Number("0.8"), 0.8},
		{"above range", 1.5, 1},
		{"below range", -0.2, 0},
		{"negative infinity", math.Inf(-1), 0},
		{"NaN", math.NaN(), 0.5},
		{"non-numeric", "high", 0.5},
		{"null", nil, 0},
		{"missing", Absent, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeConfidence(tt.input))
		})
	}
}

func TestNumericNormalizersStayInRange(t *testing.T) {
	inputs := []float64{
		math.NaN(), math.Inf(1), math.Inf(-1), -math.MaxFloat64, math.MaxFloat64,
		-1, 0, 0.49, 0.5, 1, 364.5, 365, 366, 1e9,
	}

	for _, x := range inputs {
		days := NormalizeShelfLifeDays(x)
		assert.GreaterOrEqual(t, days, 1, "shelfLifeDays(%v)", x)
		assert.LessOrEqual(t, days, 365, "shelfLifeDays(%v)", x)

		c := NormalizeConfidence(x)
		assert.GreaterOrEqual(t, c, 0.0, "confidence(%v)", x)
		assert.LessOrEqual(t, c, 1.0, "confidence(%v)", x)

		assert.GreaterOrEqual(t, NormalizeQuantity(x), 0.0, "quantity(%v)", x)
	}
}

func TestNormalizersAreIdempotent(t *testing.T) {
	inputs := []any{
		"Dairy", "FREEZER", "lbs", "garbage", "", nil, Absent,
		-5.0, 0.0, 0.3, 1.5, 400.0, math.NaN(), json.Number("12"), "7",
	}

	for _, in := range inputs {
		category := NormalizeCategory(in)
		assert.Equal(t, category, NormalizeCategory(category))

		unit := NormalizeQuantityUnit(in)
		assert.Equal(t, unit, NormalizeQuantityUnit(unit))

		location := NormalizeStorageLocation(in)
		assert.Equal(t, location, NormalizeStorageLocation(location))

		name := NormalizeName(in)
		assert.Equal(t, name, NormalizeName(name))

		q := NormalizeQuantity(in)
		assert.Equal(t, q, NormalizeQuantity(q))

		days := NormalizeShelfLifeDays(in)
		assert.Equal(t, days, NormalizeShelfLifeDays(float64(days)))

		c := NormalizeConfidence(in)
		assert.Equal(t, c, NormalizeConfidence(c))
	}
}

func TestNormalizedValuesReportNoChange(t *testing.T) {
	_, changed := normalizeEnum("dairy", categorySet, DefaultCategory)
	assert.False(t, changed)
	_, changed = normalizeEnum("Dairy", categorySet, DefaultCategory)
	assert.True(t, changed)

	_, changed = normalizeShelfLifeDays(json.Number("5"))
	assert.False(t, changed)
	_, changed = normalizeShelfLifeDays(json.Number("5.5"))
	assert.True(t, changed)

	_, changed = normalizeConfidence(nil)
	assert.True(t, changed)
	_, changed = normalizeQuantity(json.Number("0"))
	assert.False(t, changed)
}
