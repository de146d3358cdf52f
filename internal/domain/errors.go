package domain

import "errors"

var (
	// ErrNoIngredients is returned when the ingredient text parses to nothing
	ErrNoIngredients = errors.New("no ingredients given")

	// ErrRecipeNotFound is returned when a selection resolves to no catalog entry
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrCatalogLoad is returned when the recipe catalog cannot be read or decoded
	ErrCatalogLoad = errors.New("failed to load recipe catalog")

	// ErrAssistantUnavailable is returned when no assistant API key is configured
	ErrAssistantUnavailable = errors.New("assistant not configured")

	// ErrAssistantFailure is returned when the assistant API request fails
	ErrAssistantFailure = errors.New("assistant API request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
