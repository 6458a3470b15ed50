package domain

// Edge defines a transition from one vertex to another.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`

	// Weight is the explicit selection probability in [0,1].
	// Nil or 0 means the edge shares the remaining probability equally with
	// the other unweighted edges leaving the same vertex.
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Name returns the display label of the edge, falling back to its ID.
func (e Edge) Name() string {
	if e.Label != "" {
		return e.Label
	}
	return e.ID
}

// Weighted reports whether the edge carries an explicit positive probability.
func (e Edge) Weighted() bool {
	return e.Weight != nil && *e.Weight > 0
}

// Matches reports whether name refers to this edge by ID or label.
func (e Edge) Matches(name string) bool {
	return e.ID == name || (e.Label != "" && e.Label == name)
}

// Weight returns a pointer to w, for use in Edge literals.
func Weight(w float64) *float64 {
	return &w
}

// Path is an ordered sequence of edges forming a contiguous walk.
type Path []Edge

// Append returns a new path with e added at the tail.
// The receiver is never modified, so sibling paths never share storage.
func (p Path) Append(e Edge) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, e)
}

// Last returns the tail edge of the path.
func (p Path) Last() (Edge, bool) {
	if len(p) == 0 {
		return Edge{}, false
	}
	return p[len(p)-1], true
}

// Labels returns the display labels of the path edges in order.
func (p Path) Labels() []string {
	labels := make([]string, len(p))
	for i, e := range p {
		labels[i] = e.Name()
	}
	return labels
}
