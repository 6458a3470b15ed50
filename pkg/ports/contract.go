package ports

import (
	"context"
	"testing"
	"time"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunModelStoreContract runs a suite of tests to verify that a ModelStore implementation
// adheres to the defined interface contract.
func RunModelStoreContract(t *testing.T, store ModelStore) {
	ctx := context.Background()
	name := "contract-model-" + time.Now().Format("20060102150405")

	newModel := func(name string) *domain.Model {
		return &domain.Model{
			Name:     name,
			Start:    "a",
			Vertices: []domain.Vertex{{ID: "a"}, {ID: "b", Label: "B/sub"}},
			Edges: []domain.Edge{
				{ID: "e1", Source: "a", Target: "b", Weight: domain.Weight(0.25)},
				{ID: "e2", Source: "b", Target: "a"},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		model := newModel(name)

		err := store.Save(ctx, model)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, model.Start, loaded.Start)
		assert.Equal(t, model.Vertices, loaded.Vertices)
		require.Len(t, loaded.Edges, 2)
		require.NotNil(t, loaded.Edges[0].Weight, "explicit weights must survive a round trip")
		assert.InDelta(t, 0.25, *loaded.Edges[0].Weight, 1e-9)
		assert.Nil(t, loaded.Edges[1].Weight, "absent weights must stay absent")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newModel(name)))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound, "Load after Delete should return ErrModelNotFound")
	})

	t.Run("List", func(t *testing.T) {
		name1 := name + "-1"
		name2 := name + "-2"
		_ = store.Save(ctx, newModel(name1))
		_ = store.Save(ctx, newModel(name2))

		defer func() {
			_ = store.Delete(ctx, name1)
			_ = store.Delete(ctx, name2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, name1)
		assert.Contains(t, names, name2)
	})
}
