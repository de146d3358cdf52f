package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recipehelper/backend/internal/domain"
	"github.com/recipehelper/backend/internal/observability"
	"go.uber.org/zap"
)

// RecipeServiceConfig holds configuration for the recipe service
type RecipeServiceConfig struct {
	MinMatch           int
	WindowSize         int
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// RecipeService is the entry point used by the console and HTTP surfaces.
// Flow for a query: parse -> check cache -> rank -> cache -> window.
type RecipeService struct {
	matcher   *MatchingService
	cache     domain.CacheRepository
	saved     domain.SavedRecipeRepository
	assistant domain.Assistant
	metrics   *observability.Metrics
	logger    *zap.Logger
	cacheTTL  time.Duration
	catalogFP string
	now       func() time.Time
}

// NewRecipeService creates a new recipe service. cache, saved, assistant and
// metrics may be nil; the matching core works without them.
func NewRecipeService(
	catalog *domain.Catalog,
	cache domain.CacheRepository,
	saved domain.SavedRecipeRepository,
	assistant domain.Assistant,
	metrics *observability.Metrics,
	logger *zap.Logger,
	config RecipeServiceConfig,
) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	return &RecipeService{
		matcher: NewMatchingService(catalog, MatchConfig{
			MinMatch:           config.MinMatch,
			WindowSize:         config.WindowSize,
			EnableDebugLogging: config.EnableDebugLogging,
		}, logger),
		cache:     cache,
		saved:     saved,
		assistant: assistant,
		metrics:   metrics,
		logger:    logger,
		cacheTTL:  cacheTTL,
		catalogFP: catalog.Fingerprint(),
		now:       time.Now,
	}
}

// AvailableDiets lists every diet tag in the catalog
func (s *RecipeService) AvailableDiets() []string {
	return s.matcher.AvailableDiets()
}

// MinMatch returns the threshold used by Suggest
func (s *RecipeService) MinMatch() int {
	return s.matcher.MinMatch()
}

// Suggest parses the ingredient text and ranks the catalog against it.
// Returns ErrNoIngredients when nothing could be parsed; ranking with an
// empty ingredient set is never attempted.
func (s *RecipeService) Suggest(ctx context.Context, text, diet string) (*domain.Suggestion, error) {
	ingredients := ParseIngredients(text)
	if len(ingredients) == 0 {
		s.metrics.RecordSuggestion(observability.OutcomeNoInput)
		return nil, domain.ErrNoIngredients
	}

	minMatch := s.matcher.MinMatch()
	cacheKey := generateCacheKey(s.catalogFP, ingredients, diet, minMatch)

	matches, err := s.getFromCache(ctx, cacheKey)
	if err == nil {
		s.metrics.RecordSuggestion(observability.OutcomeCacheHit)
	} else {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("suggestion cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}

		matches = s.matcher.MatchRecipes(ingredients, minMatch, diet)

		if err := s.setInCache(ctx, cacheKey, matches); err != nil {
			s.logger.Warn("suggestion cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}

		if len(matches) == 0 {
			s.metrics.RecordSuggestion(observability.OutcomeEmpty)
		} else {
			s.metrics.RecordSuggestion(observability.OutcomeMatched)
		}
	}

	s.logger.Debug("ranked recipes",
		zap.Strings("ingredients", ingredients),
		zap.String("diet", diet),
		zap.Int("matches", len(matches)),
	)

	if matches == nil {
		matches = []domain.MatchResult{}
	}

	return &domain.Suggestion{
		Ingredients: ingredients,
		Diet:        diet,
		MinMatch:    minMatch,
		Matches:     matches,
		Window:      s.matcher.Window(matches),
	}, nil
}

// Select resolves a user's choice against the shown window, then the catalog
func (s *RecipeService) Select(choice string, window []domain.MatchResult) (domain.Recipe, bool) {
	r, ok := s.matcher.Resolve(choice, window)
	s.recordLookup(ok)
	return r, ok
}

// Lookup finds a recipe by catalog position or partial title
func (s *RecipeService) Lookup(query string) (domain.Recipe, bool) {
	r, ok := s.matcher.FindRecipeByTitleOrIndex(query)
	s.recordLookup(ok)
	return r, ok
}

// Substitute suggests a replacement for a missing ingredient
func (s *RecipeService) Substitute(ingredient string) string {
	return SuggestSubstitute(ingredient)
}

// Explain renders a recipe for display
func (s *RecipeService) Explain(recipe domain.Recipe) string {
	return ExplainRecipe(recipe)
}

// Card renders the printable recipe card
func (s *RecipeService) Card(recipe domain.Recipe) string {
	return RenderCard(recipe)
}

// Plan builds the shopping list, cost and timers for a chosen recipe
func (s *RecipeService) Plan(recipe domain.Recipe, have []string) *domain.CookingPlan {
	return &domain.CookingPlan{
		Recipe:        recipe,
		ShoppingList:  BuildShoppingList(recipe, have),
		EstimatedCost: EstimateCost(recipe),
		Timers:        PlanTimers(recipe.Time),
	}
}

// Save records the recipe in the saved list and writes its card.
// Returns the saved entry and the card path.
func (s *RecipeService) Save(ctx context.Context, recipe domain.Recipe) (*domain.SavedRecipe, string, error) {
	if s.saved == nil {
		return nil, "", fmt.Errorf("%w: no saved recipe store configured", domain.ErrInvalidRequest)
	}

	allergens := recipe.Allergens
	if allergens == nil {
		allergens = []string{}
	}

	entry := &domain.SavedRecipe{
		ID:        uuid.New().String(),
		Title:     recipe.Title,
		SavedAt:   s.now().UTC(),
		Allergens: allergens,
	}

	if err := s.saved.Save(ctx, entry); err != nil {
		return nil, "", fmt.Errorf("failed to save recipe: %w", err)
	}

	cardPath, err := s.saved.WriteCard(ctx, SafeFilename(recipe.Title)+".txt", RenderCard(recipe))
	if err != nil {
		return entry, "", fmt.Errorf("failed to write recipe card: %w", err)
	}

	s.logger.Info("saved recipe", zap.String("title", recipe.Title), zap.String("card", cardPath))

	return entry, cardPath, nil
}

// SavedRecipes lists previously saved recipes, oldest first
func (s *RecipeService) SavedRecipes(ctx context.Context) ([]domain.SavedRecipe, error) {
	if s.saved == nil {
		return []domain.SavedRecipe{}, nil
	}

	entries, err := s.saved.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	if entries == nil {
		entries = []domain.SavedRecipe{}
	}
	return entries, nil
}

// Ask forwards a free-form question to the assistant
func (s *RecipeService) Ask(ctx context.Context, question string, recipe domain.Recipe) (string, error) {
	if s.assistant == nil {
		s.metrics.RecordAssistant(observability.OutcomeUnavailable)
		return "", domain.ErrAssistantUnavailable
	}

	answer, err := s.assistant.Ask(ctx, question, &recipe)
	if err != nil {
		if errors.Is(err, domain.ErrAssistantUnavailable) {
			s.metrics.RecordAssistant(observability.OutcomeUnavailable)
		} else {
			s.metrics.RecordAssistant(observability.OutcomeFailed)
			s.logger.Warn("assistant request failed", zap.Error(err))
		}
		return "", err
	}

	s.metrics.RecordAssistant(observability.OutcomeAnswered)
	return answer, nil
}

func (s *RecipeService) recordLookup(found bool) {
	if found {
		s.metrics.RecordLookup(observability.OutcomeFound)
	} else {
		s.metrics.RecordLookup(observability.OutcomeNotFound)
	}
}

// generateCacheKey creates an order-independent cache key for a query.
// The catalog fingerprint keeps a shared cache from serving rankings of
// another catalog.
// Format: "suggest:{fingerprint}:{sorted,ingredients}:{diet}:{minMatch}"
func generateCacheKey(catalogFP string, ingredients []string, diet string, minMatch int) string {
	seen := make(map[string]struct{}, len(ingredients))
	unique := make([]string, 0, len(ingredients))
	for _, i := range ingredients {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		unique = append(unique, i)
	}
	sort.Strings(unique)
	return fmt.Sprintf("suggest:%s:%s:%s:%d", catalogFP, strings.Join(unique, ","), strings.ToLower(diet), minMatch)
}

// getFromCache retrieves a ranked list from cache
func (s *RecipeService) getFromCache(ctx context.Context, key string) ([]domain.MatchResult, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var matches []domain.MatchResult
	if err := json.Unmarshal(data, &matches); err != nil {
		// Drop the unreadable entry so the fresh ranking replaces it.
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to evict cached suggestion", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to decode cached suggestion: %w", err)
	}
	return matches, nil
}

// setInCache stores a ranked list in cache
func (s *RecipeService) setInCache(ctx context.Context, key string, matches []domain.MatchResult) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(matches)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
