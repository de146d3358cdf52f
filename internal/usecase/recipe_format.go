package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/recipehelper/backend/internal/domain"
)

// unsafeFilenameChars matches anything not allowed in a card file name
var unsafeFilenameChars = regexp.MustCompile(`[^0-9a-zA-Z_-]`)

// NutritionDisclaimer is appended wherever an estimate is shown
const NutritionDisclaimer = "(Best-effort estimate. Do not use for medical/diet purposes.)"

// ExplainRecipe renders the title line, diet tags and numbered steps
func ExplainRecipe(recipe domain.Recipe) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("%s (%s)", recipe.Title, orNA(recipe.Time)))

	if len(recipe.Diets) > 0 {
		lines = append(lines, "Dietary tags: "+strings.Join(recipe.Diets, ", "))
	}

	lines = append(lines, "")

	for i, step := range recipe.Steps {
		lines = append(lines, fmt.Sprintf("- Step %d: %s", i+1, step))
	}

	return strings.Join(lines, "\n")
}

// FormatAllergens renders the allergen line shown after a recipe
func FormatAllergens(recipe domain.Recipe) string {
	if len(recipe.Allergens) == 0 {
		return "Allergens (best-effort): None detected"
	}
	return "Allergens (best-effort): " + strings.Join(recipe.Allergens, ", ")
}

// FormatNutrition renders the one-line nutrition estimate
func FormatNutrition(recipe domain.Recipe) string {
	n := recipe.Nutrition
	if n == nil {
		return "Nutrition estimate: Not available"
	}
	return fmt.Sprintf("Nutrition estimate (per recipe): %d cal | %sg protein | %sg carbs | %sg fat",
		n.Calories, formatGrams(n.ProteinG), formatGrams(n.CarbsG), formatGrams(n.FatG))
}

// RenderCard builds the printable recipe card text
func RenderCard(recipe domain.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", recipe.Title)
	b.WriteString("Ingredients:\n")
	for _, ing := range recipe.Ingredients {
		fmt.Fprintf(&b, " - %s\n", ing)
	}

	b.WriteString("\nAllergens:\n")
	if len(recipe.Allergens) > 0 {
		for _, a := range recipe.Allergens {
			fmt.Fprintf(&b, " - %s\n", a)
		}
	} else {
		b.WriteString(" - (none detected)\n")
	}

	b.WriteString("\nSteps:\n")
	for _, step := range recipe.Steps {
		fmt.Fprintf(&b, " - %s\n", step)
	}

	fmt.Fprintf(&b, "\nTime: %s\n", recipe.Time)

	b.WriteString("\nNutrition (rough estimate):\n")
	if n := recipe.Nutrition; n != nil {
		fmt.Fprintf(&b, " - Calories: %d\n", n.Calories)
		fmt.Fprintf(&b, " - Protein: %sg\n", formatGrams(n.ProteinG))
		fmt.Fprintf(&b, " - Carbs: %sg\n", formatGrams(n.CarbsG))
		fmt.Fprintf(&b, " - Fat: %sg\n", formatGrams(n.FatG))
	}
	b.WriteString("\n(Nutrition estimates are best-effort and should NOT be used for medical/diet purposes.)\n")

	return b.String()
}

// SafeFilename turns a recipe title into a file name stem
func SafeFilename(title string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(title, "_"), "_")
	if name == "" {
		return "recipe"
	}
	return name
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatGrams(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
