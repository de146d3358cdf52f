package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Catalog is the read-only recipe snapshot built once at startup.
// Accessors hand out copies of the backing slice; recipe fields must be
// treated as read-only by callers.
type Catalog struct {
	recipes     []Recipe
	fingerprint string
}

// NewCatalog copies recipes into a new snapshot
func NewCatalog(recipes []Recipe) *Catalog {
	cp := make([]Recipe, len(recipes))
	copy(cp, recipes)
	return &Catalog{recipes: cp, fingerprint: fingerprint(cp)}
}

// Fingerprint identifies the catalog content. Two catalogs with the same
// recipes in the same order share a fingerprint.
func (c *Catalog) Fingerprint() string {
	if c == nil {
		return fingerprint(nil)
	}
	return c.fingerprint
}

func fingerprint(recipes []Recipe) string {
	if recipes == nil {
		recipes = []Recipe{}
	}
	// Recipe holds only strings, slices and a plain struct, so Marshal cannot fail.
	data, _ := json.Marshal(recipes)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Len returns the number of recipes in the catalog
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.recipes)
}

// At returns the recipe at the zero-based index i
func (c *Catalog) At(i int) (Recipe, bool) {
	if c == nil || i < 0 || i >= len(c.recipes) {
		return Recipe{}, false
	}
	return c.recipes[i], true
}

// Recipes returns a copy of all recipes in catalog order
func (c *Catalog) Recipes() []Recipe {
	if c == nil {
		return nil
	}
	cp := make([]Recipe, len(c.recipes))
	copy(cp, c.recipes)
	return cp
}
