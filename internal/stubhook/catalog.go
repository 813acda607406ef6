package stubhook

// Product is the webhook's success payload.
type Product struct {
	ProductName      string   `json:"productName"`
	Brands           string   `json:"brands,omitempty"`
	ServingSize      string   `json:"servingSize,omitempty"`
	Calories         float64  `json:"calories,omitempty"`
	SugarLevel       string   `json:"sugarLevel,omitempty"`
	SugarsPerServing string   `json:"sugarsPerServing,omitempty"`
	SugarContext     string   `json:"sugarContext,omitempty"`
	AIRecommendation string   `json:"aiRecommendation,omitempty"`
	Alternatives     []string `json:"alternatives,omitempty"`
	Image            string   `json:"image,omitempty"`
}

// DemoCatalog returns the products the client's hint line suggests.
func DemoCatalog() map[string]Product {
	return map[string]Product{
		"737628064502": {
			ProductName:      "Pad Thai",
			Brands:           "Trader Joe's",
			ServingSize:      "1 cup (227g)",
			Calories:         380,
			SugarLevel:       "moderate",
			SugarsPerServing: "8g",
			SugarContext:     "About 2 teaspoons, or 16% of the recommended daily limit.",
			AIRecommendation: "The sauce carries most of the sugar. Pair a smaller portion with extra vegetables.",
			Alternatives:     []string{"Brown rice noodles with peanut sauce", "Vegetable stir fry"},
		},
		"041520893164": {
			ProductName:      "Chocolate Chip Energy Bar",
			Brands:           "Clif Bar",
			ServingSize:      "1 bar (68g)",
			Calories:         250,
			SugarLevel:       "high",
			SugarsPerServing: "21g",
			SugarContext:     "About 5 teaspoons, or 42% of the recommended daily limit.",
			AIRecommendation: "Fine around long exercise. As an everyday snack it is closer to a candy bar.",
			Alternatives:     []string{"KIND Dark Chocolate Nuts & Sea Salt", "RXBAR Chocolate Sea Salt"},
		},
		"0016000119178": {
			ProductName:      "Cheerios",
			Brands:           "General Mills",
			ServingSize:      "1.5 cups (39g)",
			Calories:         140,
			SugarLevel:       "low",
			SugarsPerServing: "2g",
			SugarContext:     "Under half a teaspoon.",
			AIRecommendation: "A low sugar breakfast base. Add fruit rather than sugar for sweetness.",
		},
	}
}
