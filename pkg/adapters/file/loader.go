package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// Loader implements ports.ModelLoader for a single model file.
type Loader struct {
	Path string
}

var _ ports.ModelLoader = (*Loader)(nil)

// NewLoader creates a loader for the model file at path.
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// LoadModel reads and decodes the file. A model without a name is named
// after the file.
func (l *Loader) LoadModel(ctx context.Context) (*domain.Model, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, l.Path)
		}
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	ext := filepath.Ext(l.Path)
	model, err := Decode(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(l.Path), ext)
	}
	return model, nil
}
