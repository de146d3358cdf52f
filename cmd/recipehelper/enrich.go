package main

import (
	"fmt"

	"github.com/recipehelper/backend/internal/infrastructure/catalog"
	"github.com/recipehelper/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	enrichAllergens bool
	enrichNutrition bool
	enrichOutput    string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Tag catalog recipes with allergens and nutrition estimates",
	Long: `enrich recomputes the allergens and nutrition fields of every recipe in the
catalog from its ingredient list and writes the catalog back (or to --output).

Both are best-effort keyword estimates and must not be used for medical or diet purposes.`,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichAllergens, "allergens", true, "recompute allergen tags")
	enrichCmd.Flags().BoolVar(&enrichNutrition, "nutrition", true, "recompute nutrition estimates")
	enrichCmd.Flags().StringVarP(&enrichOutput, "output", "o", "", "write to this file instead of overwriting the catalog")
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfigAndLogger(false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !enrichAllergens && !enrichNutrition {
		return fmt.Errorf("nothing to do: both --allergens and --nutrition are off")
	}

	recipes, err := catalog.ReadRecipes(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	enriched, report := usecase.EnrichRecipes(recipes, usecase.EnrichOptions{
		Allergens: enrichAllergens,
		Nutrition: enrichNutrition,
	})

	out := enrichOutput
	if out == "" {
		out = cfg.Catalog.Path
	}
	if err := catalog.Write(out, enriched); err != nil {
		return err
	}
	log.Info("catalog enriched", zap.String("path", out), zap.Int("recipes", report.Updated))

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Updated %d recipes in %s.\n", report.Updated, out)
	if enrichAllergens {
		if len(report.AllergenCounts) == 0 {
			fmt.Fprintln(w, "No allergens detected.")
		} else {
			fmt.Fprintln(w, "Allergen counts:")
			for _, c := range report.AllergenCounts {
				fmt.Fprintf(w, " - %s: %d\n", c.Allergen, c.Recipes)
			}
		}
	}
	if enrichNutrition {
		fmt.Fprintln(w, "Nutrition estimates are rough and should NOT be used for medical/diet purposes.")
		for i := 0; i < len(enriched) && i < 3; i++ {
			fmt.Fprintf(w, " - %s: %s\n", enriched[i].Title, usecase.FormatNutrition(enriched[i]))
		}
	}
	return nil
}
