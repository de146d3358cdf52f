package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/recipehelper/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format identifies the on-disk encoding of a catalog file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from the file extension.
// Anything other than .yaml/.yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads the catalog file at path and returns an immutable snapshot
func Load(path string) (*domain.Catalog, error) {
	recipes, err := ReadRecipes(path)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(recipes), nil
}

// ReadRecipes reads the raw recipe records at path
func ReadRecipes(path string) ([]domain.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}

	recipes, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCatalogLoad, path, err)
	}
	return recipes, nil
}

// Decode parses a catalog document in the given format
func Decode(data []byte, format Format) ([]domain.Recipe, error) {
	var recipes []domain.Recipe

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &recipes); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &recipes); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}

	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return recipes, nil
}

// Encode serializes recipes in the given format.
// JSON output is indented by two spaces and keeps non-ASCII text as is.
func Encode(recipes []domain.Recipe, format Format) ([]byte, error) {
	if recipes == nil {
		recipes = []domain.Recipe{}
	}

	if format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(recipes); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recipes); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// Write overwrites path with recipes, encoded by the path's extension
func Write(path string, recipes []domain.Recipe) error {
	data, err := Encode(recipes, FormatFromPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
