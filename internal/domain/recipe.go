package domain

import "time"

// Recipe is a single catalog entry. Tags, Allergens and Nutrition are filled
// by the enrichment command and passed through untouched by the matcher.
type Recipe struct {
	Title       string     `json:"title" yaml:"title"`
	Ingredients []string   `json:"ingredients" yaml:"ingredients"`
	Time        string     `json:"time" yaml:"time"`
	Diets       []string   `json:"diets" yaml:"diets"`
	Steps       []string   `json:"steps" yaml:"steps"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Allergens   []string   `json:"allergens,omitempty" yaml:"allergens,omitempty"`
	Nutrition   *Nutrition `json:"nutrition,omitempty" yaml:"nutrition,omitempty"`
}

// Nutrition is a rough per-recipe macro estimate
type Nutrition struct {
	Calories int     `json:"calories" yaml:"calories"`
	ProteinG float64 `json:"protein_g" yaml:"protein_g"`
	CarbsG   float64 `json:"carbs_g" yaml:"carbs_g"`
	FatG     float64 `json:"fat_g" yaml:"fat_g"`
}

// MatchResult pairs a recipe with the number of its ingredients the user has
type MatchResult struct {
	Recipe     Recipe `json:"recipe"`
	MatchCount int    `json:"matchCount"`
}

// Suggestion is the outcome of one ingredient query
type Suggestion struct {
	Ingredients []string      `json:"ingredients"`
	Diet        string        `json:"diet,omitempty"`
	MinMatch    int           `json:"minMatch"`
	Matches     []MatchResult `json:"matches"`
	Window      []MatchResult `json:"window"`
}

// SavedRecipe is an entry in the saved recipes file
type SavedRecipe struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SavedAt   time.Time `json:"saved_at"`
	Allergens []string  `json:"allergens"`
}

// ShoppingItem is one recipe ingredient and whether the user already has it
type ShoppingItem struct {
	Name string `json:"name"`
	Have bool   `json:"have"`
}

// TimerPlan splits a recipe's total time into prep and cook timers
type TimerPlan struct {
	PrepMinutes  int  `json:"prepMinutes"`
	CookMinutes  int  `json:"cookMinutes"`
	TotalMinutes int  `json:"totalMinutes,omitempty"`
	Parsed       bool `json:"parsed"` // false when the time text had no number
}

// CookingPlan is what the user gets after confirming a recipe
type CookingPlan struct {
	Recipe        Recipe         `json:"recipe"`
	ShoppingList  []ShoppingItem `json:"shoppingList"`
	EstimatedCost float64        `json:"estimatedCost"`
	Timers        TimerPlan      `json:"timers"`
}
