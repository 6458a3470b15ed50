package ports

import (
	"context"

	"github.com/hodaniel/graphwalker/pkg/domain"
)

// ModelLoader builds a model from an external source.
// This allows the model format (YAML files, Loam repositories) to be decoupled.
type ModelLoader interface {
	LoadModel(ctx context.Context) (*domain.Model, error)
}
