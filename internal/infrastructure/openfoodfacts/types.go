package openfoodfacts

import (
	"encoding/json"
	"strconv"
	"strings"
)

// productResponse is the envelope returned by GET /api/v2/product/{barcode}.json
type productResponse struct {
	Code          string      `json:"code"`
	Status        flexInt     `json:"status"` // 1 = found, 0 = not found
	StatusVerbose string      `json:"status_verbose"`
	Product       *rawProduct `json:"product"`
}

// searchResponse is the envelope returned by the search-a-licious /search endpoint
type searchResponse struct {
	Hits     []rawProduct `json:"hits"`
	Count    int          `json:"count"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// rawProduct is the subset of the Open Food Facts product document we read.
// Field types are tolerant because crowdsourced data mixes strings, numbers
// and arrays for the same key.
type rawProduct struct {
	ID              string             `json:"_id"`
	Code            string             `json:"code"`
	ProductName     string             `json:"product_name"`
	Brands          stringList         `json:"brands"`
	Categories      string             `json:"categories"`
	CategoriesTags  stringList         `json:"categories_tags"`
	ImageURL        string             `json:"image_url"`
	ImageFrontURL   string             `json:"image_front_url"`
	IngredientsText string             `json:"ingredients_text"`
	Ingredients     []rawIngredient    `json:"ingredients"`
	Allergens       string             `json:"allergens"`
	AllergensTags   stringList         `json:"allergens_tags"`
	Traces          string             `json:"traces"`
	TracesTags      stringList         `json:"traces_tags"`
	NutriscoreGrade string             `json:"nutriscore_grade"`
	NovaGroup       flexInt            `json:"nova_group"`
	EcoscoreGrade   string             `json:"ecoscore_grade"`
	NutrientLevels  map[string]string  `json:"nutrient_levels"`
	Nutriments      map[string]flexAny `json:"nutriments"`
	Quantity        string             `json:"quantity"`
	ServingSize     string             `json:"serving_size"`
	CountriesTags   stringList         `json:"countries_tags"`
}

type rawIngredient struct {
	ID              string     `json:"id"`
	Text            string     `json:"text"`
	Percent         *flexFloat `json:"percent"`
	PercentEstimate *flexFloat `json:"percent_estimate"`
	Vegan           string     `json:"vegan"`
	Vegetarian      string     `json:"vegetarian"`
}

// stringList decodes either a JSON array of strings or a comma separated string.
// Non-string and empty array elements are skipped and any other value decodes to nil, so a
// malformed list never fails the whole document.
type stringList []string

func (s *stringList) UnmarshalJSON(b []byte) error {
	*s = nil

	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = splitList(str)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	for _, item := range items {
		var v string
		if err := json.Unmarshal(item, &v); err == nil && v != "" {
			*s = append(*s, v)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// flexFloat decodes a JSON number or a numeric string
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	v, ok := parseNumber(b)
	if !ok {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexInt decodes a JSON number or a numeric string, truncating fractions
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	v, ok := parseNumber(b)
	if !ok {
		*i = 0
		return nil
	}
	*i = flexInt(v)
	return nil
}

// flexAny keeps a nutriment value that may be a number, a string or anything else
type flexAny struct {
	number float64
	ok     bool
}

func (a *flexAny) UnmarshalJSON(b []byte) error {
	a.number, a.ok = parseNumber(b)
	return nil
}

// Float returns the numeric value and whether the raw value was numeric
func (a flexAny) Float() (float64, bool) {
	return a.number, a.ok
}

func parseNumber(b []byte) (float64, bool) {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
