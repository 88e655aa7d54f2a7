package domain

// AnalysisContext is everything needed to judge a product for the user
type AnalysisContext struct {
	Profile *Profile
	Product *ProductDetails
}

// LLMInput is the compact profile and product shape handed to the analysis model
type LLMInput struct {
	UserProfile LLMProfile `json:"user_profile"`
	Product     LLMProduct `json:"product"`
}

// LLMProfile carries the profile fields relevant to a dietary judgement
type LLMProfile struct {
	Diet         *string  `json:"diet"`
	Allergies    []string `json:"allergies"`
	Restrictions []string `json:"restrictions"`
	Age          *int     `json:"age"`
	Weight       *float64 `json:"weight"`
	Goals        *string  `json:"goals"`
}

// LLMProduct is a product reduced to the fields the model reasons about
type LLMProduct struct {
	Name             string           `json:"name"`
	Brands           string           `json:"brands,omitempty"`
	Allergens        []string         `json:"allergens"`
	Nutriscore       string           `json:"nutriscore,omitempty"`
	NovaGroup        int              `json:"nova_group,omitempty"`
	NutrientLevels   NutrientLevels   `json:"nutrient_levels"`
	NutritionPer100g NutritionSummary `json:"nutrition_per_100g"`
	Ingredients      []LLMIngredient  `json:"ingredients"`
}

// NutritionSummary holds the headline per-100g nutrients; absent values stay nil
type NutritionSummary struct {
	EnergyKcal   *float64 `json:"energy_kcal,omitempty"`
	Fat          *float64 `json:"fat,omitempty"`
	SaturatedFat *float64 `json:"saturated_fat,omitempty"`
	Carbs        *float64 `json:"carbs,omitempty"`
	Sugars       *float64 `json:"sugars,omitempty"`
	Protein      *float64 `json:"protein,omitempty"`
	Salt         *float64 `json:"salt,omitempty"`
	Fiber        *float64 `json:"fiber,omitempty"`
}

// LLMIngredient is one ingredient in model-friendly form
type LLMIngredient struct {
	Name       string   `json:"name"`
	Percent    *float64 `json:"percent,omitempty"`
	Vegan      string   `json:"vegan,omitempty"`
	Vegetarian string   `json:"vegetarian,omitempty"`
}
