package tests

import (
	"errors"
	"testing"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// ContractModel returns the model MachineContractTest expects its factory to load:
//
//	a --e1--> b --e3--> c (dead end)
//	^         |
//	+---e2----+
func ContractModel() *domain.Model {
	return &domain.Model{
		Name:  "contract",
		Start: "a",
		Vertices: []domain.Vertex{
			{ID: "a", Label: "A"},
			{ID: "b", Label: "B/open"},
			{ID: "c", Label: "C"},
		},
		Edges: []domain.Edge{
			{ID: "e1", Label: "E1", Source: "a", Target: "b"},
			{ID: "e2", Label: "E2", Source: "b", Target: "a"},
			{ID: "e3", Label: "E3", Source: "b", Target: "c"},
		},
	}
}

// MachineContractTest is a reusable test suite that verifies if an implementation complies with ports.Machine.
// The factory must return a fresh machine positioned at the start of ContractModel.
func MachineContractTest(t *testing.T, factory func(t *testing.T) ports.Machine) {
	t.Helper()

	edge := func(id string) domain.Edge {
		for _, e := range ContractModel().Edges {
			if e.ID == id {
				return e
			}
		}
		t.Fatalf("unknown contract edge %s", id)
		return domain.Edge{}
	}

	t.Run("StartsAtStartVertex", func(t *testing.T) {
		m := factory(t)
		if got := m.CurrentVertex().ID; got != "a" {
			t.Fatalf("expected start vertex 'a', got %q", got)
		}
		if got := m.VertexLabel(); got != "A" {
			t.Errorf("expected label 'A', got %q", got)
		}
	})

	t.Run("CurrentOutEdges", func(t *testing.T) {
		m := factory(t)
		if err := m.WalkEdge(edge("e1")); err != nil {
			t.Fatalf("walk e1: %v", err)
		}
		edges, err := m.CurrentOutEdges()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(edges) != 2 || edges[0].ID != "e2" || edges[1].ID != "e3" {
			t.Errorf("expected [e2 e3] in definition order, got %v", edges)
		}
	})

	t.Run("DeadEnd", func(t *testing.T) {
		m := factory(t)
		if err := m.WalkPath(domain.Path{edge("e1"), edge("e3")}); err != nil {
			t.Fatalf("walk path: %v", err)
		}
		_, err := m.CurrentOutEdges()
		if !errors.Is(err, domain.ErrDeadEnd) {
			t.Errorf("expected ErrDeadEnd, got %v", err)
		}
	})

	t.Run("WalkEdge_RejectsForeignEdge", func(t *testing.T) {
		m := factory(t)
		err := m.WalkEdge(edge("e3"))
		if !errors.Is(err, domain.ErrEdgeNotAvailable) {
			t.Errorf("expected ErrEdgeNotAvailable, got %v", err)
		}
		if got := m.CurrentVertex().ID; got != "a" {
			t.Errorf("failed walk must not move the machine, now at %q", got)
		}
	})

	t.Run("CheckpointRollback", func(t *testing.T) {
		m := factory(t)
		outer := m.Checkpoint()
		if err := m.WalkEdge(edge("e1")); err != nil {
			t.Fatalf("walk e1: %v", err)
		}

		inner := m.Checkpoint()
		if err := m.WalkEdge(edge("e3")); err != nil {
			t.Fatalf("walk e3: %v", err)
		}
		if err := m.Rollback(inner); err != nil {
			t.Fatalf("rollback inner: %v", err)
		}
		if got := m.CurrentVertex().ID; got != "b" {
			t.Errorf("expected 'b' after inner rollback, got %q", got)
		}

		if err := m.Rollback(outer); err != nil {
			t.Fatalf("rollback outer: %v", err)
		}
		if got := m.CurrentVertex().ID; got != "a" {
			t.Errorf("expected 'a' after outer rollback, got %q", got)
		}

		if err := m.Rollback(outer); !errors.Is(err, domain.ErrInvalidCheckpoint) {
			t.Errorf("expected ErrInvalidCheckpoint on reuse, got %v", err)
		}
	})

	t.Run("SearchModeNests", func(t *testing.T) {
		m := factory(t)
		if prev := m.SetSearchMode(true); prev {
			t.Fatalf("expected search mode to start disabled")
		}
		if prev := m.SetSearchMode(true); !prev {
			t.Errorf("nested call must report the enabled mode")
		}
		m.SetSearchMode(true)
		if prev := m.SetSearchMode(false); !prev {
			t.Errorf("expected previous mode true")
		}
	})
}
