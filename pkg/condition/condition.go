package condition

import (
	"fmt"
	"strings"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// Threshold is the fulfilment at which a condition counts as satisfied.
// It tolerates floating point error around 1.0.
const Threshold = 0.99999

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// EdgeCoverageCondition is fulfilled once the given percentage of edges was walked.
type EdgeCoverageCondition struct {
	cov     ports.Coverage
	percent int
}

// EdgeCoverage returns a condition requiring percent% of the edges to be visited.
func EdgeCoverage(cov ports.Coverage, percent int) *EdgeCoverageCondition {
	return &EdgeCoverageCondition{cov: cov, percent: percent}
}

func (c *EdgeCoverageCondition) Fulfilment() float64 {
	stats := c.cov.Statistics()
	if stats.Edges == 0 {
		return 1
	}
	return coverageFulfilment(stats.EdgeCoverage(), c.percent)
}

func (c *EdgeCoverageCondition) IsFulfilled() bool { return c.Fulfilment() >= Threshold }

func (c *EdgeCoverageCondition) String() string { return fmt.Sprintf("EdgeCoverage(%d)", c.percent) }

// VertexCoverageCondition is fulfilled once the given percentage of vertices was visited.
type VertexCoverageCondition struct {
	cov     ports.Coverage
	percent int
}

// VertexCoverage returns a condition requiring percent% of the vertices to be visited.
func VertexCoverage(cov ports.Coverage, percent int) *VertexCoverageCondition {
	return &VertexCoverageCondition{cov: cov, percent: percent}
}

func (c *VertexCoverageCondition) Fulfilment() float64 {
	stats := c.cov.Statistics()
	if stats.Vertices == 0 {
		return 1
	}
	return coverageFulfilment(stats.VertexCoverage(), c.percent)
}

func (c *VertexCoverageCondition) IsFulfilled() bool { return c.Fulfilment() >= Threshold }

func (c *VertexCoverageCondition) String() string {
	return fmt.Sprintf("VertexCoverage(%d)", c.percent)
}

func coverageFulfilment(ratio float64, percent int) float64 {
	if percent <= 0 {
		return 1
	}
	return clamp(ratio / (float64(percent) / 100))
}

// ReachedVertexCondition is fulfilled while the machine stands on a matching vertex.
// Until then, fulfilment grows as the shortest distance to a match shrinks.
type ReachedVertexCondition struct {
	cov  ports.Coverage
	name string
}

// ReachedVertex returns a condition matching vertices by ID or label.
func ReachedVertex(cov ports.Coverage, name string) *ReachedVertexCondition {
	return &ReachedVertexCondition{cov: cov, name: name}
}

func (c *ReachedVertexCondition) matches(v domain.Vertex) bool {
	return v.ID == c.name || (v.Label != "" && v.Label == c.name)
}

func (c *ReachedVertexCondition) Fulfilment() float64 {
	if c.matches(c.cov.CurrentVertex()) {
		return 1
	}
	vertices := c.cov.Vertices()
	dist := distances(c.cov, c.cov.CurrentVertex().ID)

	best := -1
	for _, v := range vertices {
		d, ok := dist[v.ID]
		if ok && c.matches(v) && (best < 0 || d < best) {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	return clamp(1 - float64(best)/float64(len(vertices)))
}

func (c *ReachedVertexCondition) IsFulfilled() bool { return c.Fulfilment() >= Threshold }

func (c *ReachedVertexCondition) String() string { return fmt.Sprintf("ReachedVertex(%s)", c.name) }

// ReachedEdgeCondition is fulfilled once a matching edge has been walked.
type ReachedEdgeCondition struct {
	cov  ports.Coverage
	name string
}

// ReachedEdge returns a condition matching edges by ID or label.
func ReachedEdge(cov ports.Coverage, name string) *ReachedEdgeCondition {
	return &ReachedEdgeCondition{cov: cov, name: name}
}

func (c *ReachedEdgeCondition) Fulfilment() float64 {
	edges := c.cov.Edges()
	var sources []string
	for _, e := range edges {
		if !e.Matches(c.name) {
			continue
		}
		if c.cov.EdgeVisits(e.ID) > 0 {
			return 1
		}
		sources = append(sources, e.Source)
	}

	dist := distances(c.cov, c.cov.CurrentVertex().ID)
	best := -1
	for _, src := range sources {
		if d, ok := dist[src]; ok && (best < 0 || d < best) {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	// Standing on the source still leaves one edge to walk.
	return clamp(1 - float64(best+1)/float64(len(c.cov.Vertices())+1))
}

func (c *ReachedEdgeCondition) IsFulfilled() bool { return c.Fulfilment() >= Threshold }

func (c *ReachedEdgeCondition) String() string { return fmt.Sprintf("ReachedEdge(%s)", c.name) }

// EdgesWalkedCondition is fulfilled once every listed edge has been walked.
// Fulfilment is the share of listed edges already walked.
type EdgesWalkedCondition struct {
	cov   ports.Coverage
	names []string
}

// EdgesWalked returns a condition requiring all named edges to be walked.
func EdgesWalked(cov ports.Coverage, names ...string) *EdgesWalkedCondition {
	return &EdgesWalkedCondition{cov: cov, names: names}
}

func (c *EdgesWalkedCondition) Fulfilment() float64 {
	if len(c.names) == 0 {
		return 1
	}
	edges := c.cov.Edges()
	walked := 0
	for _, name := range c.names {
		for _, e := range edges {
			if e.Matches(name) && c.cov.EdgeVisits(e.ID) > 0 {
				walked++
				break
			}
		}
	}
	return clamp(float64(walked) / float64(len(c.names)))
}

func (c *EdgesWalkedCondition) IsFulfilled() bool { return c.Fulfilment() >= Threshold }

func (c *EdgesWalkedCondition) String() string {
	return fmt.Sprintf("EdgesWalked(%s)", strings.Join(c.names, ","))
}

// TestLengthCondition is fulfilled after a fixed number of steps.
type TestLengthCondition struct {
	cov    ports.Coverage
	length int
}

// TestLength returns a condition fulfilled once length edges were walked.
func TestLength(cov ports.Coverage, length int) *TestLengthCondition {
	return &TestLengthCondition{cov: cov, length: length}
}

func (c *TestLengthCondition) Fulfilment() float64 {
	if c.length <= 0 {
		return 1
	}
	return clamp(float64(c.cov.Statistics().Steps) / float64(c.length))
}

func (c *TestLengthCondition) IsFulfilled() bool { return c.Fulfilment() >= Threshold }

func (c *TestLengthCondition) String() string { return fmt.Sprintf("TestLength(%d)", c.length) }

// NeverCondition is never fulfilled. Paired with a random generator it walks forever.
type NeverCondition struct{}

// Never returns a condition that is never fulfilled.
func Never() NeverCondition { return NeverCondition{} }

func (NeverCondition) Fulfilment() float64 { return 0 }

func (NeverCondition) IsFulfilled() bool { return false }

func (NeverCondition) String() string { return "Never()" }

// distances returns the number of edges on the shortest walk from origin to
// every reachable vertex.
func distances(cov ports.Coverage, origin string) map[string]int {
	dist := map[string]int{origin: 0}
	queue := []string{origin}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range cov.OutEdgesOf(id) {
			if _, seen := dist[e.Target]; seen {
				continue
			}
			dist[e.Target] = dist[id] + 1
			queue = append(queue, e.Target)
		}
	}
	return dist
}
