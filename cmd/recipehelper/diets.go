package main

import (
	"fmt"

	"github.com/recipehelper/backend/internal/infrastructure/catalog"
	"github.com/recipehelper/backend/internal/usecase"
	"github.com/spf13/cobra"
)

var dietsCmd = &cobra.Command{
	Use:   "diets",
	Short: "List the dietary tags present in the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfigAndLogger(false)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		recipes, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}

		matcher := usecase.NewMatchingService(recipes, usecase.MatchConfig{}, log)
		for _, d := range matcher.AvailableDiets() {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}
