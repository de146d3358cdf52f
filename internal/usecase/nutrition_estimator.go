package usecase

import (
	"math"
	"strings"

	"github.com/recipehelper/backend/internal/domain"
)

// ingredientMacros is a rough per-serving estimate for one ingredient
type ingredientMacros struct {
	name     string
	calories float64
	protein  float64
	carbs    float64
	fat      float64
}

// ingredientNutrition is ordered: the substring fallback takes the first hit
var ingredientNutrition = []ingredientMacros{
	{"chicken", 165, 26, 0, 7},
	{"beef", 250, 26, 0, 15},
	{"pork", 242, 27, 0, 13},
	{"tofu", 76, 8, 2, 5},
	{"tempeh", 195, 19, 9, 11},
	{"salmon", 280, 25, 0, 20},
	{"tuna", 144, 30, 0, 1},
	{"shrimp", 99, 24, 0, 0.3},
	{"cod", 82, 18, 0, 1},
	{"turkey", 189, 26, 0, 8.5},
	{"rice", 206, 4, 45, 0.3},
	{"pasta", 371, 13, 75, 1},
	{"couscous", 376, 13, 77, 0.6},
	{"quinoa", 368, 14, 64, 6},
	{"bread", 265, 9, 49, 3},
	{"potato", 77, 2, 17, 0.1},
	{"sweet potato", 86, 2, 20, 0.1},
	{"egg", 78, 6, 1, 6},
	{"milk", 61, 3, 5, 3},
	{"cheese", 402, 25, 1, 33},
	{"yogurt", 59, 10, 3, 0.4},
	{"butter", 717, 0, 0, 81},
	{"olive oil", 884, 0, 0, 100},
	{"tomato", 18, 1, 4, 0.2},
	{"onion", 40, 1, 9, 0.1},
	{"garlic", 49, 2, 11, 0.5},
	{"carrot", 41, 1, 10, 0.2},
	{"broccoli", 34, 3, 7, 0.4},
	{"spinach", 23, 3, 4, 0.4},
	{"mushroom", 22, 3, 3, 0.3},
	{"bell pepper", 31, 1, 6, 0.3},
	{"lentils", 116, 9, 20, 0.4},
	{"chickpeas", 164, 9, 27, 3},
	{"black beans", 132, 9, 24, 0.5},
	{"avocado", 160, 2, 9, 15},
	{"lemon", 17, 1, 5, 0.3},
	{"coconut milk", 230, 2, 5, 24},
	{"flour", 364, 10, 76, 1},
	{"soy sauce", 80, 12, 7, 0},
}

// EstimateNutrition sums rough macros over a recipe's ingredients.
// Each ingredient takes an exact table entry when there is one, else the
// first entry whose name it contains. Not for medical or diet use.
func EstimateNutrition(ingredients []string) domain.Nutrition {
	var cal, protein, carbs, fat float64

	for _, ing := range ingredients {
		m, ok := lookupMacros(strings.ToLower(ing))
		if !ok {
			continue
		}
		cal += m.calories
		protein += m.protein
		carbs += m.carbs
		fat += m.fat
	}

	return domain.Nutrition{
		Calories: int(math.RoundToEven(cal)),
		ProteinG: roundTenth(protein),
		CarbsG:   roundTenth(carbs),
		FatG:     roundTenth(fat),
	}
}

func lookupMacros(ing string) (ingredientMacros, bool) {
	for _, m := range ingredientNutrition {
		if m.name == ing {
			return m, true
		}
	}
	for _, m := range ingredientNutrition {
		if strings.Contains(ing, m.name) {
			return m, true
		}
	}
	return ingredientMacros{}, false
}

func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
