package condition

import (
	"fmt"
	"strings"

	"github.com/hodaniel/graphwalker/pkg/ports"
)

// AlternativeCondition is fulfilled when any of its children is.
type AlternativeCondition struct {
	conditions []ports.StopCondition
}

// Alternative combines conditions with OR semantics.
// Fulfilment is the highest child fulfilment.
func Alternative(conditions ...ports.StopCondition) *AlternativeCondition {
	return &AlternativeCondition{conditions: conditions}
}

func (c *AlternativeCondition) IsFulfilled() bool {
	for _, child := range c.conditions {
		if child.IsFulfilled() {
			return true
		}
	}
	return false
}

func (c *AlternativeCondition) Fulfilment() float64 {
	best := 0.0
	for _, child := range c.conditions {
		best = max(best, child.Fulfilment())
	}
	return clamp(best)
}

func (c *AlternativeCondition) String() string {
	return "Alternative(" + join(c.conditions, " OR ") + ")"
}

// CombinationalCondition is fulfilled when all of its children are.
type CombinationalCondition struct {
	conditions []ports.StopCondition
}

// Combinational combines conditions with AND semantics.
// Fulfilment is the mean child fulfilment.
func Combinational(conditions ...ports.StopCondition) *CombinationalCondition {
	return &CombinationalCondition{conditions: conditions}
}

func (c *CombinationalCondition) IsFulfilled() bool {
	for _, child := range c.conditions {
		if !child.IsFulfilled() {
			return false
		}
	}
	return true
}

func (c *CombinationalCondition) Fulfilment() float64 {
	if len(c.conditions) == 0 {
		return 1
	}
	sum := 0.0
	for _, child := range c.conditions {
		sum += child.Fulfilment()
	}
	return clamp(sum / float64(len(c.conditions)))
}

func (c *CombinationalCondition) String() string {
	return "Combinational(" + join(c.conditions, " AND ") + ")"
}

func join(conditions []ports.StopCondition, sep string) string {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, sep)
}
