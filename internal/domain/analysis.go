package domain

// AnalysisItem is a single food item extracted from AI vision output.
// After normalization every field holds a legal enum member or in-range value.
type AnalysisItem struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Quantity        float64 `json:"quantity"`
	QuantityUnit    string  `json:"quantityUnit"`
	StorageLocation string  `json:"storageLocation"`
	ShelfLifeDays   int     `json:"shelfLifeDays"`
	Confidence      float64 `json:"confidence"`
}

// AnalysisData is the normalized payload of an AI analysis response
type AnalysisData struct {
	Items []AnalysisItem `json:"items"`
	Notes string         `json:"notes,omitempty"`
	Error string         `json:"error,omitempty"`
}

// AnalysisResult is the outcome of parsing one AI analysis response
type AnalysisResult struct {
	Success    bool          `json:"success"`
	Normalized bool          `json:"normalized"`
	Data       *AnalysisData `json:"data,omitempty"`
	Error      string        `json:"error,omitempty"`
}
