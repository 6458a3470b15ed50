package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hodaniel/graphwalker/pkg/adapters/memory"
	"github.com/hodaniel/graphwalker/pkg/domain"
)

func TestLoader_ReturnsCopies(t *testing.T) {
	model := &domain.Model{Name: "m", Start: "a", Vertices: []domain.Vertex{{ID: "a"}}}
	loader := memory.NewLoader(model)

	first, err := loader.LoadModel(context.Background())
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	first.Vertices[0].ID = "mutated"

	second, err := loader.LoadModel(context.Background())
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if second.Vertices[0].ID != "a" {
		t.Errorf("Expected an untouched copy, got vertex %q", second.Vertices[0].ID)
	}
}

func TestLoader_Empty(t *testing.T) {
	_, err := memory.NewLoader(nil).LoadModel(context.Background())
	if !errors.Is(err, domain.ErrModelNotFound) {
		t.Errorf("Expected ErrModelNotFound, got %v", err)
	}
}
