package openfoodfacts

import (
	"strings"

	"github.com/airecipes/backend/internal/domain"
)

// UnknownProductName is used when Open Food Facts has no product_name
const UnknownProductName = "Unknown Product"

// MapToProduct converts an Open Food Facts product document to our domain Product.
// barcode is used when the document carries no code of its own.
func MapToProduct(raw *rawProduct, barcode string) *domain.Product {
	return &domain.Product{
		Barcode:         firstNonEmpty(raw.Code, barcode),
		Name:            firstNonEmpty(raw.ProductName, UnknownProductName),
		Brands:          strings.Join(raw.Brands, ", "),
		Categories:      raw.Categories,
		CategoriesTags:  []string(raw.CategoriesTags),
		ImageURL:        firstNonEmpty(raw.ImageURL, raw.ImageFrontURL),
		IngredientsText: raw.IngredientsText,
		Ingredients:     mapIngredients(raw.Ingredients),
		Allergens:       raw.Allergens,
		AllergensTags:   []string(raw.AllergensTags),
		Traces:          raw.Traces,
		TracesTags:      []string(raw.TracesTags),
		NutriscoreGrade: raw.NutriscoreGrade,
		NovaGroup:       int(raw.NovaGroup),
		EcoscoreGrade:   raw.EcoscoreGrade,
		NutrientLevels:  mapNutrientLevels(raw.NutrientLevels),
		Nutriments:      extractNutriments(raw.Nutriments),
		Quantity:        raw.Quantity,
		ServingSize:     raw.ServingSize,
	}
}

// MapToSummary converts a search hit to a lightweight ProductSummary
func MapToSummary(raw *rawProduct) domain.ProductSummary {
	return domain.ProductSummary{
		Barcode:         firstNonEmpty(raw.Code, raw.ID),
		Name:            firstNonEmpty(raw.ProductName, UnknownProductName),
		Brands:          []string(raw.Brands),
		ImageURL:        firstNonEmpty(raw.ImageURL, raw.ImageFrontURL),
		NutriscoreGrade: raw.NutriscoreGrade,
		CountriesTags:   []string(raw.CountriesTags),
	}
}

func mapIngredients(raw []rawIngredient) []domain.Ingredient {
	if len(raw) == 0 {
		return nil
	}
	out := make([]domain.Ingredient, 0, len(raw))
	for _, ing := range raw {
		out = append(out, domain.Ingredient{
			ID:              ing.ID,
			Text:            ing.Text,
			Percent:         floatPtr(ing.Percent),
			PercentEstimate: floatPtr(ing.PercentEstimate),
			Vegan:           ing.Vegan,
			Vegetarian:      ing.Vegetarian,
		})
	}
	return out
}

func mapNutrientLevels(raw map[string]string) domain.NutrientLevels {
	return domain.NutrientLevels{
		Fat:          raw["fat"],
		Salt:         raw["salt"],
		SaturatedFat: raw["saturated-fat"],
		Sugars:       raw["sugars"],
	}
}

// extractNutriments keeps every numeric nutriment (per 100g, per serving and
// plain values). Unit strings such as energy-kcal_unit are dropped.
func extractNutriments(raw map[string]flexAny) map[string]float64 {
	out := make(map[string]float64)
	for key, value := range raw {
		if n, ok := value.Float(); ok {
			out[key] = n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func floatPtr(f *flexFloat) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
