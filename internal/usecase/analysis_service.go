package usecase

import (
	"context"
	"strings"

	"github.com/airecipes/backend/internal/domain"
)

// englishTagPrefix is the taxonomy language prefix Open Food Facts puts on tags and ids
const englishTagPrefix = "en:"

// AnalysisService gathers the profile and product a dietary analysis needs
type AnalysisService struct {
	profiles domain.ProfileRepository
	products *ProductService
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(profiles domain.ProfileRepository, products *ProductService) *AnalysisService {
	return &AnalysisService{profiles: profiles, products: products}
}

// GatherContext loads the user profile and the product. The profile is checked
// first so an unonboarded user never triggers an origin fetch.
func (s *AnalysisService) GatherContext(ctx context.Context, barcode string) (*domain.AnalysisContext, error) {
	profile, err := s.profiles.Find(ctx)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	return &domain.AnalysisContext{Profile: profile, Product: product}, nil
}

// BuildLLMInput reduces an analysis context to the compact model input
func BuildLLMInput(ac *domain.AnalysisContext) *domain.LLMInput {
	p := ac.Product
	input := &domain.LLMInput{
		UserProfile: domain.LLMProfile{
			Diet:         ac.Profile.Diet,
			Allergies:    ac.Profile.Allergies,
			Restrictions: ac.Profile.Restrictions,
			Age:          ac.Profile.Age,
			Weight:       ac.Profile.Weight,
			Goals:        ac.Profile.Goals,
		},
		Product: domain.LLMProduct{
			Name:             p.Name,
			Brands:           p.Brands,
			Allergens:        make([]string, 0, len(p.AllergensTags)),
			Nutriscore:       p.NutriscoreGrade,
			NovaGroup:        p.NovaGroup,
			NutrientLevels:   p.NutrientLevels,
			NutritionPer100g: summarizeNutrition(p.Nutriments),
			Ingredients:      make([]domain.LLMIngredient, 0, len(p.Ingredients)),
		},
	}

	for _, tag := range p.AllergensTags {
		input.Product.Allergens = append(input.Product.Allergens, strings.TrimPrefix(tag, englishTagPrefix))
	}

	for _, ing := range p.Ingredients {
		name := strings.TrimPrefix(ing.ID, englishTagPrefix)
		if name == "" {
			name = ing.Text
		}
		percent := ing.Percent
		if percent == nil || *percent == 0 {
			percent = ing.PercentEstimate
		}
		input.Product.Ingredients = append(input.Product.Ingredients, domain.LLMIngredient{
			Name:       name,
			Percent:    percent,
			Vegan:      ing.Vegan,
			Vegetarian: ing.Vegetarian,
		})
	}

	return input
}

func summarizeNutrition(n map[string]float64) domain.NutritionSummary {
	pick := func(key string) *float64 {
		v, ok := n[key]
		if !ok {
			return nil
		}
		return &v
	}
	return domain.NutritionSummary{
		EnergyKcal:   pick("energy-kcal_100g"),
		Fat:          pick("fat_100g"),
		SaturatedFat: pick("saturated-fat_100g"),
		Carbs:        pick("carbohydrates_100g"),
		Sugars:       pick("sugars_100g"),
		Protein:      pick("proteins_100g"),
		Salt:         pick("salt_100g"),
		Fiber:        pick("fiber_100g"),
	}
}
