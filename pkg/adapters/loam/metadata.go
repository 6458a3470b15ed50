package loam

// VertexMetadata represents the frontmatter of a vertex document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
//
//	---
//	id: v_form
//	label: Login/empty
//	edges:
//	  - id: e_submit
//	    to: v_home
//	    weight: 0.8
//	  - to: v_start
//	---
//	Free Markdown describing the vertex.
type VertexMetadata struct {
	ID    string         `json:"id" mapstructure:"id"`
	Label string         `json:"label" mapstructure:"label"`
	Start bool           `json:"start" mapstructure:"start"`
	Edges []EdgeMetadata `json:"edges" mapstructure:"edges"`
}

// EdgeMetadata is an outgoing edge declared in a vertex document.
type EdgeMetadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Label string `json:"label" mapstructure:"label"`
	To    string `json:"to" mapstructure:"to"`

	// Weight is kept untyped: strict repositories yield json.Number,
	// plain ones float64, and hand-written YAML may carry a string.
	Weight any `json:"weight,omitempty" mapstructure:"weight"`
}
