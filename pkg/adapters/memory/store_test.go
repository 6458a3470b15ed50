package memory_test

import (
	"context"
	"testing"

	"github.com/hodaniel/graphwalker/pkg/adapters/memory"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunModelStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	model := &domain.Model{
		Name:     "m",
		Start:    "a",
		Vertices: []domain.Vertex{{ID: "a"}},
		Edges:    []domain.Edge{{ID: "loop", Source: "a", Target: "a", Weight: domain.Weight(0.5)}},
	}
	require.NoError(t, store.Save(ctx, model))

	*model.Edges[0].Weight = 0.9
	model.Vertices[0].Label = "changed"

	loaded, err := store.Load(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, 0.5, *loaded.Edges[0].Weight)
	assert.Empty(t, loaded.Vertices[0].Label)

	assert.ErrorIs(t, store.Save(ctx, &domain.Model{}), domain.ErrInvalidModel)
}
