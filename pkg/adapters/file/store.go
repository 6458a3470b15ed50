package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Store implements ports.ModelStore using the local filesystem.
// Models are written as JSON; YAML files dropped into the directory are read too.
type Store struct {
	BasePath string
}

var _ ports.ModelStore = (*Store)(nil)

// NewStore creates a new Store with the given base path.
// If basePath is empty, it defaults to ".graphwalker/models".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".graphwalker", "models")
	}
	return &Store{BasePath: basePath}
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: invalid model name %q", domain.ErrInvalidModel, name)
	}
	return nil
}

// Save persists the model to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, model *domain.Model) error {
	if model == nil {
		return fmt.Errorf("%w: nil model", domain.ErrInvalidModel)
	}
	if err := validName(model.Name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure model directory: %w", err)
	}

	data, err := Encode(model, ".json")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+model.Name+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Older copies in other formats would shadow the new one on Load.
	for _, ext := range extensions[1:] {
		_ = os.Remove(filepath.Join(s.BasePath, model.Name+ext))
	}

	destPath := filepath.Join(s.BasePath, model.Name+".json")
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing model file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to model: %w", err)
	}
	return nil
}

// Load retrieves the model from its file, trying JSON first and then YAML.
func (s *Store) Load(ctx context.Context, name string) (*domain.Model, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	for _, ext := range extensions {
		path := filepath.Join(s.BasePath, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		model, err := NewLoader(path).LoadModel(ctx)
		if err != nil {
			return nil, err
		}
		model.Name = name
		return model, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, name)
}

// Delete removes every file holding the model.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.BasePath, name+ext))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete model file: %w", err)
		}
	}
	return nil
}

// List returns the names of all stored models.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "tmp-") {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isModelExt(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isModelExt(ext string) bool {
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
