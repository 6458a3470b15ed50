package memory

import (
	"context"
	"fmt"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// Loader implements ports.ModelLoader around a model held in memory.
type Loader struct {
	model *domain.Model
}

var _ ports.ModelLoader = (*Loader)(nil)

// NewLoader creates a loader handing out copies of model.
func NewLoader(model *domain.Model) *Loader {
	return &Loader{model: model}
}

// LoadModel returns a copy of the model, so walks never share state.
func (l *Loader) LoadModel(ctx context.Context) (*domain.Model, error) {
	if l.model == nil {
		return nil, fmt.Errorf("%w: no model loaded", domain.ErrModelNotFound)
	}
	return l.model.Clone(), nil
}
