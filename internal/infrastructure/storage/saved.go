package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/recipehelper/backend/internal/domain"
	"go.uber.org/zap"
)

// FileStore keeps saved recipes in a JSON list on disk and writes recipe
// cards as text files under a directory
type FileStore struct {
	mu        sync.Mutex
	savedPath string
	cardsDir  string
	logger    *zap.Logger
}

// NewFileStore creates a store rooted at the given paths. Nothing is touched
// on disk until the first write.
func NewFileStore(savedPath, cardsDir string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		savedPath: savedPath,
		cardsDir:  cardsDir,
		logger:    logger,
	}
}

// Save appends entry to the saved list. A missing or unreadable list is
// started over rather than treated as an error.
func (s *FileStore) Save(ctx context.Context, entry *domain.SavedRecipe) error {
	if entry == nil {
		return fmt.Errorf("%w: nil saved recipe", domain.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.readLocked()
	saved = append(saved, *entry)

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("encode saved recipes: %w", err)
	}

	if dir := filepath.Dir(s.savedPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create saved dir: %w", err)
		}
	}
	if err := os.WriteFile(s.savedPath, data, 0o644); err != nil {
		return fmt.Errorf("write saved recipes: %w", err)
	}

	s.logger.Debug("recipe saved",
		zap.String("id", entry.ID),
		zap.String("title", entry.Title),
		zap.Int("total", len(saved)),
	)
	return nil
}

// List returns every saved entry in insertion order
func (s *FileStore) List(ctx context.Context) ([]domain.SavedRecipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readLocked(), nil
}

// WriteCard writes content to filename inside the cards directory and
// returns the resulting path
func (s *FileStore) WriteCard(ctx context.Context, filename, content string) (string, error) {
	if filename == "" || filepath.Base(filename) != filename {
		return "", fmt.Errorf("%w: bad card filename %q", domain.ErrInvalidRequest, filename)
	}

	if err := os.MkdirAll(s.cardsDir, 0o755); err != nil {
		return "", fmt.Errorf("create cards dir: %w", err)
	}

	path := filepath.Join(s.cardsDir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write card: %w", err)
	}
	return path, nil
}

func (s *FileStore) readLocked() []domain.SavedRecipe {
	saved := []domain.SavedRecipe{}

	data, err := os.ReadFile(s.savedPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("could not read saved recipes, starting fresh",
				zap.String("path", s.savedPath), zap.Error(err))
		}
		return saved
	}

	if err := json.Unmarshal(data, &saved); err != nil {
		s.logger.Warn("saved recipes file is corrupt, starting fresh",
			zap.String("path", s.savedPath), zap.Error(err))
		return []domain.SavedRecipe{}
	}
	if saved == nil {
		saved = []domain.SavedRecipe{}
	}
	return saved
}
