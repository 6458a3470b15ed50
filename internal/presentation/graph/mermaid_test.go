package graph_test

import (
	"strings"
	"testing"

	"github.com/hodaniel/graphwalker/internal/presentation/graph"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/dsl"
	"github.com/hodaniel/graphwalker/pkg/machine"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		model    *domain.Model
		contains []string
	}{
		{
			name: "Start And Dead End Shapes",
			model: dsl.New("shapes").
				Vertex("a", "Home").
				Edge("e1", "a", "b").
				MustBuild(),
			contains: []string{
				"a((\"Home\"))",
				"b[[\"b\"]]",
			},
		},
		{
			name: "Sub-State Shape",
			model: dsl.New("sub").
				Vertex("form", "Login/empty").
				Start("a").
				Edge("e1", "a", "form").
				Edge("e2", "form", "a").
				MustBuild(),
			contains: []string{
				"form([\"Login/empty\"])",
			},
		},
		{
			name: "ID Sanitization",
			model: dsl.New("ids").
				Edge("e1", "path/to/file.md", "hyphen-ated").
				Edge("e2", "hyphen-ated", "path/to/file.md").
				MustBuild(),
			contains: []string{
				"path_to_file_md((\"path/to/file.md\"))",
				"hyphen_ated[\"hyphen-ated\"]",
			},
		},
		{
			name: "Edge Labels And Weights",
			model: dsl.New("labels").
				Edge("e1", "a", "b", dsl.Label(`say "hi"`), dsl.Weight(0.25)).
				Edge("e2", "b", "a").
				MustBuild(),
			contains: []string{
				"a -- \"say 'hi' (0.25)\" --> b",
				"b -- \"e2\" --> a",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.model, nil)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("missing header in:\n%s", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, got)
				}
			}
			if strings.Contains(got, "Overlay Styles") {
				t.Errorf("unexpected overlay without state")
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	model := dsl.New("ring").
		Edge("e1", "a", "b").
		Edge("e2", "b", "c").
		Edge("e3", "c", "a").
		MustBuild()

	m, err := machine.New(model)
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	edges, _ := m.CurrentOutEdges()
	if err := m.WalkEdge(edges[0]); err != nil {
		t.Fatalf("walk: %v", err)
	}

	got := graph.GenerateMermaid(model, graph.Overlay(m))

	for _, want := range []string{
		"class a visited;",
		"class b visited;",
		"linkStyle 0 stroke:#01579b",
		"class b current;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "class c visited;") || strings.Contains(got, "linkStyle 1 ") {
		t.Errorf("unvisited elements styled:\n%s", got)
	}
}
