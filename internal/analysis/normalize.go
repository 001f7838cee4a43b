package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Defaults applied when a field is missing or outside its domain
const (
	DefaultName            = "Unknown Item"
	DefaultCategory        = "other"
	DefaultQuantityUnit    = "items"
	DefaultStorageLocation = "refrigerator"
	DefaultQuantity        = 1.0
	DefaultShelfLifeDays   = 7
	DefaultConfidence      = 0.5

	MinShelfLifeDays = 1
	MaxShelfLifeDays = 365
)

// Categories is the closed set of food categories
var Categories = []string{
	"produce", "dairy", "meat", "seafood", "bread", "canned", "frozen",
	"beverages", "condiments", "snacks", "grains", "spices", "other",
}

// QuantityUnits is the closed set of quantity units
var QuantityUnits = []string{
	"items", "lbs", "oz", "bunch", "container", "bag", "box", "bottle", "can",
}

// StorageLocations is the closed set of storage locations
var StorageLocations = []string{
	"refrigerator", "freezer", "pantry", "counter",
}

var (
	categorySet        = toSet(Categories)
	quantityUnitSet    = toSet(QuantityUnits)
	storageLocationSet = toSet(StorageLocations)
)

type absent struct{}

// Absent stands for a field missing from the payload entirely, as opposed to
// an explicit JSON null (passed as nil).
var Absent any = absent{}

// NormalizeName returns the name unchanged if it is a non-empty string
func NormalizeName(v any) string {
	name, _ := normalizeName(v)
	return name
}

// NormalizeCategory case-folds v into the category enum, defaulting to "other"
func NormalizeCategory(v any) string {
	category, _ := normalizeEnum(v, categorySet, DefaultCategory)
	return category
}

// NormalizeQuantityUnit case-folds v into the unit enum, defaulting to "items"
func NormalizeQuantityUnit(v any) string {
	unit, _ := normalizeEnum(v, quantityUnitSet, DefaultQuantityUnit)
	return unit
}

// NormalizeStorageLocation case-folds v into the location enum, defaulting to "refrigerator"
func NormalizeStorageLocation(v any) string {
	location, _ := normalizeEnum(v, storageLocationSet, DefaultStorageLocation)
	return location
}

// NormalizeQuantity returns a quantity >= 0. Negative values become 0,
// null becomes 0, absent or non-numeric values become 1.
func NormalizeQuantity(v any) float64 {
	q, _ := normalizeQuantity(v)
	return q
}

// NormalizeShelfLifeDays returns a whole number of days in [1,365].
// Null coerces to 0 and clamps to 1; absent or non-numeric values become 7.
func NormalizeShelfLifeDays(v any) int {
	days, _ := normalizeShelfLifeDays(v)
	return days
}

// NormalizeConfidence returns a confidence in [0,1].
// Null coerces to 0; absent or non-numeric values become 0.5.
func NormalizeConfidence(v any) float64 {
	c, _ := normalizeConfidence(v)
	return c
}

// The lower-case variants also report whether the input needed correction.

func normalizeName(v any) (string, bool) {
	if s, ok := v.(string); ok && s != "" {
		return s, false
	}
	return DefaultName, true
}

func normalizeEnum(v any, allowed map[string]bool, fallback string) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return fallback, true
	}
	folded := strings.ToLower(strings.TrimSpace(s))
	if !allowed[folded] {
		return fallback, true
	}
	return folded, folded != s
}

func normalizeQuantity(v any) (float64, bool) {
	f, kind := toNumber(v)
	switch kind {
	case kindAbsent, kindInvalid:
		return DefaultQuantity, true
	case kindNull:
		return 0, true
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultQuantity, true
	}
	if f < 0 {
		return 0, true
	}
	return f, kind == kindString
}

func normalizeShelfLifeDays(v any) (int, bool) {
	f, kind := toNumber(v)
	switch kind {
	case kindAbsent, kindInvalid:
		return DefaultShelfLifeDays, true
	case kindNull:
		f = 0
	}
	if math.IsNaN(f) {
		return DefaultShelfLifeDays, true
	}

	days := clampInt(math.Round(f), MinShelfLifeDays, MaxShelfLifeDays)
	return days, kind != kindNumber || float64(days) != f
}

func normalizeConfidence(v any) (float64, bool) {
	f, kind := toNumber(v)
	switch kind {
	case kindAbsent, kindInvalid:
		return DefaultConfidence, true
	case kindNull:
		return 0, true
	}
	if math.IsNaN(f) {
		return DefaultConfidence, true
	}

	c := math.Max(0, math.Min(1, f))
	return c, kind != kindNumber || c != f
}

type numberKind int

const (
	kindNumber numberKind = iota
	kindString            // numeric string such as "2.5"
	kindNull
	kindAbsent
	kindInvalid
)

// toNumber classifies a decoded JSON value. NaN is returned as a number and
// left to the caller.
func toNumber(v any) (float64, numberKind) {
	switch x := v.(type) {
	case absent:
		return 0, kindAbsent
	case nil:
		return 0, kindNull
	case float64:
		return x, kindNumber
	case float32:
		return float64(x), kindNumber
	case int:
		return float64(x), kindNumber
	case int64:
		return float64(x), kindNumber
	case json.Number:
		f, err := parseFloat(string(x))
		if err != nil {
			return 0, kindInvalid
		}
		return f, kindNumber
	case string:
		f, err := parseFloat(strings.TrimSpace(x))
		if err != nil || math.IsNaN(f) {
			return 0, kindInvalid
		}
		return f, kindString
	default:
		return 0, kindInvalid
	}
}

// parseFloat keeps out-of-range values: overflow becomes ±Inf, underflow 0
func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) {
		return f, nil
	}
	return f, err
}

func clampInt(f float64, lo, hi int) int {
	if f < float64(lo) {
		return lo
	}
	if f > float64(hi) {
		return hi
	}
	return int(f)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
