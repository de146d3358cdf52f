package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recipehelper/backend/internal/domain"
	"github.com/recipehelper/backend/internal/usecase"
	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recipes *usecase.RecipeService
	logger  *zap.Logger
	version string
}

// NewHandler creates a new HTTP handler. A nil service makes every recipe
// endpoint answer 503.
func NewHandler(recipes *usecase.RecipeService, logger *zap.Logger, version string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if version == "" {
		version = "dev"
	}
	return &Handler{
		recipes: recipes,
		logger:  logger,
		version: version,
	}
}

// SuggestRequest is the body of POST /api/v1/recipes/suggest
type SuggestRequest struct {
	Ingredients string `json:"ingredients"`
	Diet        string `json:"diet"`
}

// PlanRequest is the body of POST /api/v1/recipes/plan
type PlanRequest struct {
	Query       string `json:"query" binding:"required"`
	Ingredients string `json:"ingredients"`
}

// AskRequest is the body of POST /api/v1/recipes/ask
type AskRequest struct {
	Query    string `json:"query" binding:"required"`
	Question string `json:"question" binding:"required"`
}

// LookupResponse is a resolved recipe plus its rendered explanation
type LookupResponse struct {
	Recipe      domain.Recipe `json:"recipe"`
	Explanation string        `json:"explanation"`
	Allergens   string        `json:"allergens"`
	Nutrition   string        `json:"nutrition"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipehelper",
		"version": h.version,
	})
}

// ListDiets returns every diet tag present in the catalog
func (h *Handler) ListDiets(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"diets": h.recipes.AvailableDiets()})
}

// SuggestRecipes ranks the catalog against the posted ingredient text
func (h *Handler) SuggestRecipes(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	suggestion, err := h.recipes.Suggest(c.Request.Context(), req.Ingredients, req.Diet)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// LookupRecipe resolves ?q= by catalog position or partial title
func (h *Handler) LookupRecipe(c *gin.Context) {
	recipe, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, LookupResponse{
		Recipe:      recipe,
		Explanation: h.recipes.Explain(recipe),
		Allergens:   usecase.FormatAllergens(recipe),
		Nutrition:   usecase.FormatNutrition(recipe),
	})
}

// RecipeCard returns the printable card for ?q= as plain text
func (h *Handler) RecipeCard(c *gin.Context) {
	recipe, ok := h.lookup(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, h.recipes.Card(recipe))
}

// PlanRecipe builds the shopping list, cost and timers for a recipe
func (h *Handler) PlanRecipe(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	recipe, found := h.recipes.Lookup(req.Query)
	if !found {
		respondError(c, http.StatusNotFound, domain.ErrRecipeNotFound.Error())
		return
	}

	c.JSON(http.StatusOK, h.recipes.Plan(recipe, usecase.ParseIngredients(req.Ingredients)))
}

// AskAssistant forwards a question about a recipe to the assistant
func (h *Handler) AskAssistant(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	recipe, found := h.recipes.Lookup(req.Query)
	if !found {
		respondError(c, http.StatusNotFound, domain.ErrRecipeNotFound.Error())
		return
	}

	answer, err := h.recipes.Ask(c.Request.Context(), req.Question, recipe)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe": recipe.Title,
		"answer": answer,
	})
}

// ListSaved returns the recipes saved from the console dialogue
func (h *Handler) ListSaved(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	saved, err := h.recipes.SavedRecipes(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// Substitute suggests a replacement for ?ingredient=
func (h *Handler) Substitute(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	ingredient := c.Query("ingredient")
	if strings.TrimSpace(ingredient) == "" {
		respondError(c, http.StatusBadRequest, "ingredient query parameter is required")
		return
	}

	substitute := h.recipes.Substitute(ingredient)
	c.JSON(http.StatusOK, gin.H{
		"ingredient": usecase.Normalize(ingredient),
		"substitute": substitute,
		"found":      substitute != usecase.NoSubstitution,
	})
}

func (h *Handler) lookup(c *gin.Context) (domain.Recipe, bool) {
	if !h.ready(c) {
		return domain.Recipe{}, false
	}

	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		respondError(c, http.StatusBadRequest, "q query parameter is required")
		return domain.Recipe{}, false
	}

	recipe, found := h.recipes.Lookup(query)
	if !found {
		respondError(c, http.StatusNotFound, domain.ErrRecipeNotFound.Error())
		return domain.Recipe{}, false
	}
	return recipe, true
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.recipes == nil {
		respondError(c, http.StatusServiceUnavailable, "recipe service not configured")
		return false
	}
	return true
}

// respondServiceError maps domain errors to status codes
func (h *Handler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoIngredients), errors.Is(err, domain.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRecipeNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAssistantUnavailable):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrAssistantFailure):
		respondError(c, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error("unhandled service error", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
