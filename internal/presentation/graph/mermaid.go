package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// GraphOverlay contains walk state data to visualize on the graph.
type GraphOverlay struct {
	VisitedVertices []string
	VisitedEdges    []string
	CurrentVertex   string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a model.
// It applies semantic styling:
// - Start: ((Circle))
// - Dead end: [[Subroutine]]
// - Sub-state (label with '/'): ([Stadium])
// - Default: [Rectangle]
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(model *domain.Model, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, v := range model.Vertices {
		safeID := sanitizeMermaidID(v.ID)

		opener, closer := "[", "]"
		switch {
		case v.ID == model.Start:
			opener, closer = "((", "))"
		case len(model.OutEdges(v.ID)) == 0:
			opener, closer = "[[", "]]"
		case v.SubState() != "":
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(v.Name()), closer))
	}

	for _, e := range model.Edges {
		label := escapeLabel(e.Name())
		if e.Weight != nil {
			label += " (" + strconv.FormatFloat(*e.Weight, 'f', -1, 64) + ")"
		}
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", sanitizeMermaidID(e.Source), label, sanitizeMermaidID(e.Target)))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedVertices {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		// Links are styled by their declaration index.
		walked := make(map[string]bool, len(overlay.VisitedEdges))
		for _, id := range overlay.VisitedEdges {
			walked[id] = true
		}
		for i, e := range model.Edges {
			if walked[e.ID] {
				sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:#01579b,stroke-width:3px;\n", i))
			}
		}

		if overlay.CurrentVertex != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentVertex)))
		}
	}

	return sb.String()
}

// Overlay builds the overlay of the walk recorded by cov.
func Overlay(cov ports.Coverage) *GraphOverlay {
	o := &GraphOverlay{CurrentVertex: cov.CurrentVertex().ID}
	for _, v := range cov.Vertices() {
		if cov.VertexVisits(v.ID) > 0 {
			o.VisitedVertices = append(o.VisitedVertices, v.ID)
		}
	}
	for _, e := range cov.Edges() {
		if cov.EdgeVisits(e.ID) > 0 {
			o.VisitedEdges = append(o.VisitedEdges, e.ID)
		}
	}
	return o
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
