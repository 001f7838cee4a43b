package domain

// USDAFood represents a food item from the USDA FoodData Central API
type USDAFood struct {
	FdcID                    int            `json:"fdcId"`
	Description              string         `json:"description"`
	DataType                 string         `json:"dataType"`
	FoodCategory             string         `json:"foodCategory,omitempty"`
	BrandOwner               string         `json:"brandOwner,omitempty"`
	BrandName                string         `json:"brandName,omitempty"`
	GtinUpc                  string         `json:"gtinUpc,omitempty"`
	Ingredients              string         `json:"ingredients,omitempty"`
	PackageWeight            string         `json:"packageWeight,omitempty"`
	ServingSize              float64        `json:"servingSize,omitempty"`
	ServingSizeUnit          string         `json:"servingSizeUnit,omitempty"`
	HouseholdServingFullText string         `json:"householdServingFullText,omitempty"`
	Nutrients                []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA data
type USDANutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

// OFFProduct is the subset of an Open Food Facts product record we consume.
// Nutriments and NovaGroup are loosely typed upstream (numbers or strings).
type OFFProduct struct {
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name,omitempty"`
	ProductNameEn   string         `json:"product_name_en,omitempty"`
	GenericName     string         `json:"generic_name,omitempty"`
	Brands          string         `json:"brands,omitempty"`
	BrandOwner      string         `json:"brand_owner,omitempty"`
	Categories      string         `json:"categories,omitempty"`
	ImageURL        string         `json:"image_url,omitempty"`
	ImageFrontURL   string         `json:"image_front_url,omitempty"`
	NutriscoreGrade string         `json:"nutriscore_grade,omitempty"`
	NovaGroup       any            `json:"nova_group,omitempty"`
	IngredientsText string         `json:"ingredients_text,omitempty"`
	Quantity        string         `json:"quantity,omitempty"`
	ServingSize     string         `json:"serving_size,omitempty"`
	Nutriments      map[string]any `json:"nutriments,omitempty"`
}

// OFFSearchResponse represents the response from the Open Food Facts search API
type OFFSearchResponse struct {
	Count    int          `json:"count"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Products []OFFProduct `json:"products"`
}

// OFFProductResponse represents the response from the Open Food Facts product API.
// Status is 1 when the product exists.
type OFFProductResponse struct {
	Code    string      `json:"code"`
	Status  int         `json:"status"`
	Product *OFFProduct `json:"product,omitempty"`
}
