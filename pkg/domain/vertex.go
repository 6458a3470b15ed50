package domain

import "strings"

// SubStateDelimiter separates a vertex name from its sub-state.
const SubStateDelimiter = "/"

// Vertex represents a state in the model.
type Vertex struct {
	ID string `json:"id" yaml:"id"`

	// Label is the display name. It may encode a sub-state, e.g. "Login/step2".
	// If empty, the ID is used.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Name returns the display label of the vertex, falling back to its ID.
func (v Vertex) Name() string {
	if v.Label != "" {
		return v.Label
	}
	return v.ID
}

// SubState returns the part of the vertex label after the first '/'.
func (v Vertex) SubState() string {
	return SubState(v.Name())
}

// SubState returns the substring of label after the first '/', or "" if absent.
func SubState(label string) string {
	_, after, found := strings.Cut(label, SubStateDelimiter)
	if !found {
		return ""
	}
	return after
}
