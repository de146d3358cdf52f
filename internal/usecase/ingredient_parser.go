package usecase

import (
	"regexp"
	"strings"
)

// ingredientSeparatorPattern matches the explicit list separators
var ingredientSeparatorPattern = regexp.MustCompile(`[;,]`)

// Normalize lowercases and trims surrounding whitespace. No stemming or
// plural handling is done.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// ParseIngredients turns free-form ingredient text into normalized names.
//
// Commas and semicolons are the preferred separators. When the text has
// neither but does contain a space ("chicken rice broccoli"), it is split
// on whitespace instead. Empty fragments are dropped, so blank input yields
// an empty slice.
func ParseIngredients(text string) []string {
	parts := splitNonEmpty(ingredientSeparatorPattern.Split(text, -1))

	if len(parts) == 1 && strings.Contains(text, " ") && !strings.ContainsAny(text, ",;") {
		parts = strings.Fields(text)
	}

	normalized := make([]string, 0, len(parts))
	for _, p := range parts {
		normalized = append(normalized, Normalize(p))
	}
	return normalized
}

// splitNonEmpty trims each fragment and drops the empty ones
func splitNonEmpty(fragments []string) []string {
	var kept []string
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	return kept
}
