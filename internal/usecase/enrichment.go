package usecase

import (
	"sort"

	"github.com/recipehelper/backend/internal/domain"
)

// EnrichOptions selects which derived fields EnrichRecipes fills in
type EnrichOptions struct {
	Allergens bool
	Nutrition bool
}

// AllergenCount is the number of recipes tagged with one allergen
type AllergenCount struct {
	Allergen string
	Recipes  int
}

// EnrichReport summarizes an enrichment run
type EnrichReport struct {
	Updated        int
	AllergenCounts []AllergenCount // most frequent first
}

// EnrichRecipes returns a copy of recipes with allergen tags and nutrition
// estimates recomputed from their ingredient lists. Existing values for the
// selected fields are overwritten; everything else is passed through.
func EnrichRecipes(recipes []domain.Recipe, opts EnrichOptions) ([]domain.Recipe, EnrichReport) {
	out := make([]domain.Recipe, len(recipes))
	counts := make(map[string]int)

	for i, r := range recipes {
		if opts.Allergens {
			r.Allergens = DetectAllergens(r.Ingredients)
		}
		if opts.Nutrition {
			n := EstimateNutrition(r.Ingredients)
			r.Nutrition = &n
		}
		for _, a := range r.Allergens {
			counts[a]++
		}
		out[i] = r
	}

	report := EnrichReport{Updated: len(out)}
	for a, c := range counts {
		report.AllergenCounts = append(report.AllergenCounts, AllergenCount{Allergen: a, Recipes: c})
	}
	sort.Slice(report.AllergenCounts, func(i, j int) bool {
		ci, cj := report.AllergenCounts[i], report.AllergenCounts[j]
		if ci.Recipes != cj.Recipes {
			return ci.Recipes > cj.Recipes
		}
		return ci.Allergen < cj.Allergen
	})

	return out, report
}
