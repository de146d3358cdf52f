package usecase

import (
	"sort"
	"strconv"
	"strings"

	"github.com/recipehelper/backend/internal/domain"
	"go.uber.org/zap"
)

// DefaultMinMatch is the number of shared ingredients a recipe needs to be offered
const DefaultMinMatch = 2

// DefaultWindowSize is how many ranked recipes are shown for selection
const DefaultWindowSize = 3

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinMatch           int
	WindowSize         int
	EnableDebugLogging bool
}

// MatchingService ranks and looks up recipes in a catalog snapshot
type MatchingService struct {
	catalog            *domain.Catalog
	minMatch           int
	windowSize         int
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewMatchingService creates a new matching service over the given catalog
func NewMatchingService(catalog *domain.Catalog, config MatchConfig, logger *zap.Logger) *MatchingService {
	minMatch := config.MinMatch
	if minMatch <= 0 {
		minMatch = DefaultMinMatch
	}

	windowSize := config.WindowSize
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{
		catalog:            catalog,
		minMatch:           minMatch,
		windowSize:         windowSize,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// MinMatch returns the configured default threshold
func (s *MatchingService) MinMatch() int {
	return s.minMatch
}

// Window returns the top of a ranked list that is offered for selection
func (s *MatchingService) Window(ranked []domain.MatchResult) []domain.MatchResult {
	if len(ranked) > s.windowSize {
		return ranked[:s.windowSize]
	}
	return ranked
}

// DietAllowed reports whether a recipe with the given diet tags passes the
// requested diet. An empty diet lets everything through. Tags are compared
// by exact normalized equality; "vega" does not select "vegan".
func DietAllowed(diet string, tags []string) bool {
	if diet == "" {
		return true
	}
	want := Normalize(diet)
	for _, tag := range tags {
		if Normalize(tag) == want {
			return true
		}
	}
	return false
}

// CountOverlap returns how many distinct recipe ingredients are covered by
// the user's ingredients. A recipe ingredient is covered when it equals a
// user ingredient or either one contains the other ("soba" covers
// "soba noodles"). This is deliberately loose and yields false positives
// such as "pea" covering "peanut".
func CountOverlap(recipeIngredients []string, userIngredients map[string]struct{}) int {
	matched := make(map[string]struct{})
	for u := range userIngredients {
		for _, raw := range recipeIngredients {
			ri := Normalize(raw)
			if u == ri || strings.Contains(ri, u) || strings.Contains(u, ri) {
				matched[ri] = struct{}{}
			}
		}
	}
	return len(matched)
}

// MatchRecipes ranks catalog recipes against the user's ingredients.
// Recipes failing the diet filter or sharing fewer than minMatch ingredients
// are dropped. The rest are ordered by match count descending, then by raw
// title ascending. An empty result means no suggestions.
func (s *MatchingService) MatchRecipes(ingredients []string, minMatch int, diet string) []domain.MatchResult {
	userSet := make(map[string]struct{}, len(ingredients))
	for _, i := range ingredients {
		userSet[Normalize(i)] = struct{}{}
	}

	var matches []domain.MatchResult
	for _, r := range s.catalog.Recipes() {
		if !DietAllowed(diet, r.Diets) {
			continue
		}

		count := CountOverlap(r.Ingredients, userSet)

		if s.enableDebugLogging {
			s.logger.Debug("scored recipe",
				zap.String("title", r.Title),
				zap.Int("matches", count),
			)
		}

		if count >= minMatch {
			matches = append(matches, domain.MatchResult{Recipe: r, MatchCount: count})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchCount != matches[j].MatchCount {
			return matches[i].MatchCount > matches[j].MatchCount
		}
		return matches[i].Recipe.Title < matches[j].Recipe.Title
	})

	return matches
}

// AvailableDiets returns every diet tag in the catalog, deduplicated and sorted
func (s *MatchingService) AvailableDiets() []string {
	seen := make(map[string]struct{})
	for _, r := range s.catalog.Recipes() {
		for _, d := range r.Diets {
			seen[d] = struct{}{}
		}
	}

	diets := make([]string, 0, len(seen))
	for d := range seen {
		diets = append(diets, d)
	}
	sort.Strings(diets)
	return diets
}

// SelectFromWindow interprets choice as a 1-based position in the ranked
// window that was shown to the user.
func SelectFromWindow(choice string, window []domain.MatchResult) (domain.Recipe, bool) {
	choice = strings.TrimSpace(choice)
	if !isDigits(choice) {
		return domain.Recipe{}, false
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(window) {
		return domain.Recipe{}, false
	}
	return window[idx-1].Recipe, true
}

// FindRecipeByTitleOrIndex looks a query up in the whole catalog.
// A numeric query is a 1-based catalog position (not a ranked window
// position). Otherwise, or when the position is out of range, the first
// recipe whose title contains the query case-insensitively is returned.
func (s *MatchingService) FindRecipeByTitleOrIndex(query string) (domain.Recipe, bool) {
	q := Normalize(query)

	if isDigits(q) {
		if idx, err := strconv.Atoi(q); err == nil {
			if r, ok := s.catalog.At(idx - 1); ok {
				return r, true
			}
		}
	}

	for _, r := range s.catalog.Recipes() {
		if strings.Contains(Normalize(r.Title), q) {
			return r, true
		}
	}

	return domain.Recipe{}, false
}

// Resolve tries the ranked window first and then the whole catalog
func (s *MatchingService) Resolve(choice string, window []domain.MatchResult) (domain.Recipe, bool) {
	if r, ok := SelectFromWindow(choice, window); ok {
		return r, true
	}
	return s.FindRecipeByTitleOrIndex(choice)
}

// isDigits checks if a string is non-empty and contains only ASCII digits
func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
