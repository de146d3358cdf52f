package usecase

// NoSubstitution is returned for ingredients without a known swap
const NoSubstitution = "I don't have a suggestion for that ingredient"

// substitutions maps a missing ingredient to a suggested alternative
var substitutions = map[string]string{
	"butter":     "oil",
	"milk":       "plant milk or water",
	"egg":        "mashed banana or applesauce (for baking)",
	"sour cream": "yogurt",
	"cream":      "milk",
	"broth":      "water + seasoning",
	"chicken":    "tofu or chickpeas",
	"beef":       "lentils or mushrooms",
	"fish":       "tofu or beans",
}

// SuggestSubstitute returns a swap for the ingredient. Lookup is by exact
// normalized key; "butter milk" gets no suggestion even though "butter" does.
func SuggestSubstitute(ingredient string) string {
	if s, ok := substitutions[Normalize(ingredient)]; ok {
		return s
	}
	return NoSubstitution
}
