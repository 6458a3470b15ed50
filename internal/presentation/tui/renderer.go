package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hodaniel/graphwalker/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return "", err
		}
		return r.Render(markdown)
	}
}

// Report summarizes a finished walk as markdown.
func Report(model, strategy string, stats domain.Statistics, steps []domain.Step) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Walk of `%s`\n\n", model)
	fmt.Fprintf(&sb, "Strategy:\n\n```\n%s\n```\n\n", strategy)

	sb.WriteString("| Metric | Visited | Total | Coverage |\n|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| Vertices | %d | %d | %.0f%% |\n", stats.VisitedVertices, stats.Vertices, stats.VertexCoverage()*100)
	fmt.Fprintf(&sb, "| Edges | %d | %d | %.0f%% |\n\n", stats.VisitedEdges, stats.Edges, stats.EdgeCoverage()*100)
	fmt.Fprintf(&sb, "**%d steps**\n", stats.Steps)

	if len(steps) > 0 {
		sb.WriteString("\n## Path\n\n")
		for i, s := range steps {
			fmt.Fprintf(&sb, "%d. `%s` -> %s\n", i+1, s.Edge, s.Vertex)
		}
	}
	return sb.String()
}
