package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/recipehelper/backend/internal/domain"
	"github.com/recipehelper/backend/internal/infrastructure/storage"
	"github.com/spf13/cobra"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List recipes saved from the dialogue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfigAndLogger(false)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		store := storage.NewFileStore(cfg.Storage.SavedPath, cfg.Storage.CardsDir, log)
		entries, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		printSaved(cmd.OutOrStdout(), entries)
		return nil
	},
}

func printSaved(w io.Writer, entries []domain.SavedRecipe) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No saved recipes yet.")
		return
	}
	for i, e := range entries {
		allergens := "none detected"
		if len(e.Allergens) > 0 {
			allergens = strings.Join(e.Allergens, ", ")
		}
		fmt.Fprintf(w, "%d. %s (saved %s) allergens: %s\n", i+1, e.Title, e.SavedAt.UTC().Format(time.RFC3339), allergens)
	}
}
