package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/recipehelper/backend/internal/domain"
)

// costPerIngredient is the flat per-ingredient price used for the rough estimate
const costPerIngredient = 1.75

// Fallback timers when the recipe time has no number in it
const (
	defaultPrepMinutes = 10
	defaultCookMinutes = 15
	minTimerMinutes    = 5
)

var firstNumberPattern = regexp.MustCompile(`\d+`)

// BuildShoppingList marks each recipe ingredient the user already has.
// Unlike matching, this is exact (case-insensitive) comparison.
func BuildShoppingList(recipe domain.Recipe, have []string) []domain.ShoppingItem {
	haveSet := make(map[string]struct{}, len(have))
	for _, h := range have {
		haveSet[strings.ToLower(h)] = struct{}{}
	}

	items := make([]domain.ShoppingItem, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		_, ok := haveSet[strings.ToLower(ing)]
		items = append(items, domain.ShoppingItem{Name: ing, Have: ok})
	}
	return items
}

// EstimateCost returns a flat-rate cost estimate rounded to cents
func EstimateCost(recipe domain.Recipe) float64 {
	return math.Round(float64(len(recipe.Ingredients))*costPerIngredient*100) / 100
}

// PlanTimers splits the first number found in the time text into a prep
// quarter and the remaining cook time, each at least five minutes
func PlanTimers(timeText string) domain.TimerPlan {
	m := firstNumberPattern.FindString(timeText)
	total, err := strconv.Atoi(m)
	if m == "" || err != nil {
		return domain.TimerPlan{PrepMinutes: defaultPrepMinutes, CookMinutes: defaultCookMinutes}
	}

	prep := max(minTimerMinutes, total/4)
	cook := max(minTimerMinutes, total-prep)

	return domain.TimerPlan{
		PrepMinutes:  prep,
		CookMinutes:  cook,
		TotalMinutes: total,
		Parsed:       true,
	}
}
