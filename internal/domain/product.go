package domain

import "time"

// Product is the canonical, provider-independent product record.
// It is the shape serialized into the product cache.
type Product struct {
	Barcode         string             `json:"barcode"`
	Name            string             `json:"name"`
	Brands          string             `json:"brands,omitempty"`
	Categories      string             `json:"categories,omitempty"`
	CategoriesTags  []string           `json:"categories_tags,omitempty"`
	ImageURL        string             `json:"image_url,omitempty"`
	IngredientsText string             `json:"ingredients_text,omitempty"`
	Ingredients     []Ingredient       `json:"ingredients,omitempty"`
	Allergens       string             `json:"allergens,omitempty"`
	AllergensTags   []string           `json:"allergens_tags,omitempty"`
	Traces          string             `json:"traces,omitempty"`
	TracesTags      []string           `json:"traces_tags,omitempty"`
	NutriscoreGrade string             `json:"nutriscore_grade,omitempty"`
	NovaGroup       int                `json:"nova_group,omitempty"`
	EcoscoreGrade   string             `json:"ecoscore_grade,omitempty"`
	NutrientLevels  NutrientLevels     `json:"nutrient_levels,omitempty"`
	Nutriments      map[string]float64 `json:"nutriments,omitempty"`
	Quantity        string             `json:"quantity,omitempty"`
	ServingSize     string             `json:"serving_size,omitempty"`
}

// Ingredient is a single entry of a product's parsed ingredient list
type Ingredient struct {
	ID              string   `json:"id,omitempty"`
	Text            string   `json:"text,omitempty"`
	Percent         *float64 `json:"percent,omitempty"`
	PercentEstimate *float64 `json:"percent_estimate,omitempty"`
	Vegan           string   `json:"vegan,omitempty"`
	Vegetarian      string   `json:"vegetarian,omitempty"`
}

// NutrientLevels holds the low/moderate/high traffic-light levels
type NutrientLevels struct {
	Fat          string `json:"fat,omitempty"`
	Salt         string `json:"salt,omitempty"`
	SaturatedFat string `json:"saturated-fat,omitempty"`
	Sugars       string `json:"sugars,omitempty"`
}

// ProductDetails is a product as returned to API callers, annotated with cache state
type ProductDetails struct {
	Product
	Cached   bool      `json:"cached"`
	CachedAt time.Time `json:"cached_at"`
}

// ProductSummary is the lightweight shape used for text search results
type ProductSummary struct {
	Barcode         string   `json:"barcode"`
	Name            string   `json:"name"`
	Brands          []string `json:"brands,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	NutriscoreGrade string   `json:"nutriscore_grade,omitempty"`
	CountriesTags   []string `json:"countries_tags,omitempty"`
}

// SearchResult is one page of text search results
type SearchResult struct {
	Products []ProductSummary `json:"products"`
	Count    int              `json:"count"`
	Page     int              `json:"page"`
}

// CachedProduct is a cache row: a serialized Product snapshot keyed by barcode
type CachedProduct struct {
	Barcode  string
	Name     string
	Payload  []byte
	CachedAt time.Time
}
