package usecase

import (
	"sort"
	"strings"
)

// allergenKeywords maps an allergen group to ingredient keywords that imply it.
// Best-effort only.
var allergenKeywords = map[string][]string{
	"milk": {
		"milk", "butter", "cream", "yogurt", "cheese", "parmesan", "feta", "mozzarella",
		"buttermilk", "ghee", "evaporated milk", "condensed milk", "goat milk", "sheep milk",
	},
	"egg": {"egg", "egg white", "egg yolk", "mayonnaise"},
	"soy": {
		"soy", "tofu", "soy sauce", "tempeh", "edamame", "miso", "natto", "soybean",
		"soy lecithin",
	},
	"peanut": {"peanut", "peanut butter", "peanut oil"},
	"tree_nuts": {
		"almond", "walnut", "pecan", "cashew", "hazelnut", "macadamia", "pistachio",
		"brazil nut", "brazilnut", "chestnut", "pine nut", "pine nuts",
	},
	"wheat_gluten": {
		"flour", "wheat", "pasta", "bread", "tortilla", "breadcrumbs", "semolina", "spelt",
		"rye", "barley", "bulgur", "farro", "kamut", "noodles", "ramen",
	},
	"fish": {
		"fish", "salmon", "tuna", "cod", "halibut", "trout", "anchovy", "mackerel", "herring",
	},
	"shellfish": {
		"shrimp", "prawn", "prawns", "scallop", "mussel", "mussels", "oyster", "crab", "lobster",
	},
	"sesame":   {"sesame", "sesame seeds", "tahini", "sesame oil"},
	"mustard":  {"mustard", "mustard seed", "mustard powder"},
	"celery":   {"celery", "celeriac"},
	"sulfites": {"sulfite", "sulphite", "sulphites", "sulfites", "dried fruit"},
}

// DetectAllergens returns the sorted allergen groups whose keywords appear
// as substrings of any ingredient
func DetectAllergens(ingredients []string) []string {
	lowered := make([]string, len(ingredients))
	for i, ing := range ingredients {
		lowered[i] = strings.ToLower(ing)
	}

	found := []string{}
	for allergen, keywords := range allergenKeywords {
		if containsAnyKeyword(lowered, keywords) {
			found = append(found, allergen)
		}
	}
	sort.Strings(found)
	return found
}

func containsAnyKeyword(ingredients, keywords []string) bool {
	for _, kw := range keywords {
		for _, ing := range ingredients {
			if strings.Contains(ing, kw) {
				return true
			}
		}
	}
	return false
}
