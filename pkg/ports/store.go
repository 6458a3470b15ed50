package ports

import (
	"context"

	"github.com/hodaniel/graphwalker/pkg/domain"
)

// ModelStore persists named models so online sessions can be started by name.
type ModelStore interface {
	// Save stores the model under its name, replacing any previous version.
	Save(ctx context.Context, model *domain.Model) error

	// Load retrieves a model by name.
	// Returns domain.ErrModelNotFound if the model does not exist.
	Load(ctx context.Context, name string) (*domain.Model, error)

	// Delete removes a model by name.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored models.
	List(ctx context.Context) ([]string, error)
}
