// Package cli implements the interactive console dialogue.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/recipehelper/backend/internal/domain"
	"github.com/recipehelper/backend/internal/usecase"
	"go.uber.org/zap"
)

const (
	followUpPrompt   = "Anything else? Ask for substitutions, time, or 'want to make this' to confirm, or 'exit'"
	assistantMissing = "Sorry — I can answer substitution and time questions. For richer answers, set OPENAI_API_KEY and run again."
)

// maxLineBytes bounds a single line of input
const maxLineBytes = 1 << 20

var (
	// errInputClosed ends the dialogue when stdin runs out
	errInputClosed = errors.New("input closed")
	errLineTooLong = errors.New("input line too long")
)

// Gateway is the interactive recipe dialogue over a line-oriented reader
type Gateway struct {
	recipes *usecase.RecipeService
	scanner *bufio.Scanner
	logger  *zap.Logger

	mu       sync.Mutex // guards out
	out      io.Writer
	shutdown sync.Once
}

// NewGateway creates a dialogue reading from in and writing to out
func NewGateway(recipes *usecase.RecipeService, in io.Reader, out io.Writer, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &Gateway{
		recipes: recipes,
		scanner: scanner,
		out:     out,
		logger:  logger,
	}
}

// Start runs one dialogue to completion. Running out of input is a normal
// way to finish and is not reported as an error.
func (g *Gateway) Start(ctx context.Context) error {
	err := g.run(ctx)
	if errors.Is(err, errInputClosed) {
		g.println("\nInput closed. Exiting.")
		return g.scanner.Err()
	}
	if errors.Is(err, errLineTooLong) {
		g.println("\nThat line is too long for me to read. Exiting.")
		return nil
	}
	if errors.Is(err, context.Canceled) {
		g.Interrupt()
		return nil
	}
	return err
}

// Interrupt prints the shutdown notice. Safe to call from another goroutine
// while Start is blocked on input; the notice is printed once.
func (g *Gateway) Interrupt() {
	g.shutdown.Do(func() {
		g.println("\nShutting down.")
	})
}

func (g *Gateway) run(ctx context.Context) error {
	g.println("Hi! I'm your Recipe Suggestion Helper.")
	g.println()

	g.printf("Available dietary options: %s\n", strings.Join(g.recipes.AvailableDiets(), ", "))
	diet, err := g.ask(ctx, "Do you have any dietary preferences? (or press Enter to skip)")
	if err != nil {
		return err
	}

	g.println()
	g.println("Tell me what ingredients you have (comma-separated). Example: 'chicken, rice, broccoli'")
	ingText, err := g.ask(ctx, "What ingredients do you have?")
	if err != nil {
		return err
	}

	suggestion, err := g.recipes.Suggest(ctx, ingText, diet)
	if errors.Is(err, domain.ErrNoIngredients) {
		g.println("I didn't hear any ingredients. Exiting.")
		return nil
	}
	if err != nil {
		return err
	}

	if len(suggestion.Matches) == 0 {
		g.printf("Sorry, I couldn't find recipes matching at least %d of your ingredients\n", suggestion.MinMatch)
		if diet != "" {
			g.printf("with the '%s' dietary requirement.\n", diet)
		}
		g.println("Try adding more ingredients or removing dietary filters.")
		return nil
	}

	g.println("Great! Here are some recipes you can make:")
	for i, m := range suggestion.Window {
		g.println(formatWindowLine(i+1, m))
	}

	choice, err := g.ask(ctx, "Which number would you like to know more about, or type a recipe name? (or 'no' to exit)")
	if err != nil {
		return err
	}
	switch strings.ToLower(choice) {
	case "no", "n", "exit", "quit":
		g.println("Okay, bye!")
		return nil
	}

	selected, ok := g.recipes.Select(choice, suggestion.Window)
	if !ok {
		g.println("Couldn't find that selection. Exiting.")
		return nil
	}

	g.showRecipe(selected)
	return g.followUp(ctx, selected, suggestion.Ingredients)
}

func (g *Gateway) showRecipe(recipe domain.Recipe) {
	g.println()
	g.println(g.recipes.Explain(recipe))
	g.println()
	g.println(usecase.FormatAllergens(recipe))
	g.println()
	g.println(usecase.FormatNutrition(recipe))
	if recipe.Nutrition != nil {
		g.println(usecase.NutritionDisclaimer)
	}
	g.println()
}

func (g *Gateway) followUp(ctx context.Context, recipe domain.Recipe, have []string) error {
	for {
		q, err := g.ask(ctx, followUpPrompt)
		if err != nil {
			return err
		}
		if q == "" {
			continue
		}

		lower := strings.ToLower(q)
		switch {
		case lower == "exit" || lower == "quit" || lower == "no":
			g.println("Bye — happy cooking!")
			return nil

		case strings.Contains(lower, "want to make this"):
			if err := g.prepare(ctx, recipe, have); err != nil {
				return err
			}

		case strings.Contains(lower, "i don't have") || strings.Contains(lower, "dont have"):
			_, missing, _ := strings.Cut(lower, "have")
			g.println(g.recipes.Substitute(strings.TrimSpace(missing)))

		case strings.Contains(lower, "time") || strings.Contains(lower, "how long"):
			g.printf("This recipe takes about %s\n", recipe.Time)

		case strings.Contains(lower, "steps") || strings.Contains(lower, "how do i"):
			g.println(g.recipes.Explain(recipe))

		default:
			g.answer(ctx, q, recipe)
		}
	}
}

// prepare prints the shopping list and timers and offers to save the recipe
func (g *Gateway) prepare(ctx context.Context, recipe domain.Recipe, have []string) error {
	plan := g.recipes.Plan(recipe, have)

	g.println("\nGreat — preparing this recipe for you.")
	g.println("Shopping list:")
	for _, item := range plan.ShoppingList {
		mark := "(missing)"
		if item.Have {
			mark = "(have)"
		}
		g.printf(" - %s %s\n", item.Name, mark)
	}
	g.printf("Estimated cost (rough): $%.2f\n", plan.EstimatedCost)

	save, err := g.ask(ctx, "Save this recipe to your saved list and create a recipe card? (y/n)")
	if err != nil {
		return err
	}
	if s := strings.ToLower(save); s == "y" || s == "yes" {
		g.save(ctx, recipe)
	}

	if plan.Timers.Parsed {
		g.printf("Suggested timers: prep ~%d minutes, cook ~%d minutes (total %d minutes)\n",
			plan.Timers.PrepMinutes, plan.Timers.CookMinutes, plan.Timers.TotalMinutes)
	} else {
		g.printf("Suggested timers: prep ~%d minutes, cook ~%d minutes\n",
			plan.Timers.PrepMinutes, plan.Timers.CookMinutes)
	}
	return nil
}

func (g *Gateway) save(ctx context.Context, recipe domain.Recipe) {
	entry, cardPath, err := g.recipes.Save(ctx, recipe)
	if err != nil {
		g.logger.Warn("saving recipe failed", zap.String("title", recipe.Title), zap.Error(err))
		g.printf("Sorry, I couldn't save that recipe: %v\n", err)
		return
	}
	g.printf("Saved %q to your recipe list and created recipe card at %s\n", entry.Title, cardPath)
}

func (g *Gateway) answer(ctx context.Context, question string, recipe domain.Recipe) {
	answer, err := g.recipes.Ask(ctx, question, recipe)
	if err != nil {
		if !errors.Is(err, domain.ErrAssistantUnavailable) {
			g.logger.Debug("assistant gave no answer", zap.Error(err))
		}
		g.println(assistantMissing)
		return
	}
	g.println(answer)
}

// ask prints a prompt and reads one trimmed line
func (g *Gateway) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.printf("%s\n> ", prompt)
	if !g.scanner.Scan() {
		if errors.Is(g.scanner.Err(), bufio.ErrTooLong) {
			return "", errLineTooLong
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(g.scanner.Text()), nil
}

func formatWindowLine(n int, m domain.MatchResult) string {
	diets := ""
	if len(m.Recipe.Diets) > 0 {
		diets = " — " + strings.Join(m.Recipe.Diets, ", ")
	}
	return fmt.Sprintf("%d. %s (%s)%s — matches %d ingredient(s)", n, m.Recipe.Title, m.Recipe.Time, diets, m.MatchCount)
}

func (g *Gateway) println(a ...any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintln(g.out, a...)
}

func (g *Gateway) printf(format string, a ...any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintf(g.out, format, a...)
}
