// Recipe Suggestion Helper: suggests recipes from the ingredients you have.
package main

import (
	"fmt"
	"os"

	"github.com/recipehelper/backend/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "recipehelper",
	Short: "Recipe Suggestion Helper: find recipes for the ingredients you have.",
	Long: `recipehelper matches the ingredients you have against a recipe catalog,
ranks recipes by how many ingredients overlap and walks you through the one you pick.

Run without a subcommand to start the interactive dialogue.`,
	RunE:          runChat, // Default to the dialogue.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: ./config.yaml if present)")
	rootCmd.AddCommand(chatCmd, serveCmd, enrichCmd, dietsCmd, savedCmd, versionCmd)
	_ = config.LoadEnvFile()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
