package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/macrolens/foodcore/internal/domain"
)

const errNoContent = "No response content"

// ParseAnalysisResponse turns the raw text returned by a vision model into a
// normalized AnalysisResult. It never panics and never returns an error:
// failures are reported through Success=false and Error.
func ParseAnalysisResponse(content *string) domain.AnalysisResult {
	if content == nil || *content == "" {
		return failed(errNoContent)
	}

	raw, err := decodeObject(stripCodeFence(*content))
	if err != nil {
		return failed(fmt.Sprintf("Failed to parse analysis response: %v", err))
	}

	rawItems, _ := raw["items"].([]any)
	items := make([]domain.AnalysisItem, 0, len(rawItems))
	normalized := false
	for _, rawItem := range rawItems {
		fields, _ := rawItem.(map[string]any)
		item, changed := normalizeItem(fields)
		items = append(items, item)
		normalized = normalized || changed
	}

	data := &domain.AnalysisData{Items: items}
	if notes, ok := raw["notes"].(string); ok {
		data.Notes = notes
	}
	if msg, ok := raw["error"].(string); ok {
		data.Error = msg
	}

	return domain.AnalysisResult{
		Success:    true,
		Normalized: normalized,
		Data:       data,
	}
}

// normalizeItem applies every field rule to one raw item. A nil map is
// treated as an item with every field missing.
func normalizeItem(fields map[string]any) (domain.AnalysisItem, bool) {
	get := func(key string) any {
		v, ok := fields[key]
		if !ok {
			return Absent
		}
		return v
	}

	name, c1 := normalizeName(get("name"))
	category, c2 := normalizeEnum(get("category"), categorySet, DefaultCategory)
	quantity, c3 := normalizeQuantity(get("quantity"))
	unit, c4 := normalizeEnum(get("quantityUnit"), quantityUnitSet, DefaultQuantityUnit)
	location, c5 := normalizeEnum(get("storageLocation"), storageLocationSet, DefaultStorageLocation)
	days, c6 := normalizeShelfLifeDays(get("shelfLifeDays"))
	confidence, c7 := normalizeConfidence(get("confidence"))

	item := domain.AnalysisItem{
		Name:            name,
		Category:        category,
		Quantity:        quantity,
		QuantityUnit:    unit,
		StorageLocation: location,
		ShelfLifeDays:   days,
		Confidence:      confidence,
	}
	return item, c1 || c2 || c3 || c4 || c5 || c6 || c7
}

// decodeObject decodes exactly one JSON object, keeping numbers as json.Number
func decodeObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("top-level value is not an object")
	}
	return obj, nil
}

// stripCodeFence removes a surrounding markdown code fence, which models
// often add despite being asked for bare JSON.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	body := strings.TrimPrefix(trimmed, "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		// drop the language tag line
		body = body[i+1:]
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

func failed(msg string) domain.AnalysisResult {
	return domain.AnalysisResult{Success: false, Error: msg}
}
