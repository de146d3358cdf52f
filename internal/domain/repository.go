package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque encoded bytes so memory and Redis behave the same.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SavedRecipeRepository persists saved recipes and their printable cards
type SavedRecipeRepository interface {
	Save(ctx context.Context, entry *SavedRecipe) error
	List(ctx context.Context) ([]SavedRecipe, error)
	WriteCard(ctx context.Context, filename, content string) (string, error)
}

// Assistant answers free-form questions about a recipe
type Assistant interface {
	Ask(ctx context.Context, question string, recipe *Recipe) (string, error)
}
