package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// Store implements ports.ModelStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Model
	mu   sync.RWMutex
}

var _ ports.ModelStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Model),
	}
}

// Save persists the model in memory under its name.
func (s *Store) Save(ctx context.Context, model *domain.Model) error {
	if model == nil || model.Name == "" {
		return fmt.Errorf("%w: a stored model needs a name", domain.ErrInvalidModel)
	}

	// Copy so later edits by the caller don't leak into the catalog
	copied := model.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[model.Name] = copied
	return nil
}

// Load retrieves a copy of the named model.
func (s *Store) Load(ctx context.Context, name string) (*domain.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	model, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, name)
	}
	return model.Clone(), nil
}

// Delete removes the model.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored model names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
