package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep   EventType = "step"
	EventSearch EventType = "search"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent is emitted after a generator advanced the real model position.
type StepEvent struct {
	EventBase
	Generator string `json:"generator"`
	Edge      string `json:"edge"`
	Vertex    string `json:"vertex"`
}

// SearchEvent is emitted when a path search finishes, successfully or not.
type SearchEvent struct {
	EventBase
	Origin     string        `json:"origin"`
	Expanded   int           `json:"expanded"`
	Pruned     int           `json:"pruned"`
	PathLength int           `json:"path_length"`
	Best       float64       `json:"best"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// LifecycleHooks defines callbacks for generator observability.
type LifecycleHooks struct {
	OnStep   func(context.Context, *StepEvent)
	OnSearch func(context.Context, *SearchEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep: func(ctx context.Context, e *StepEvent) {
			if h.OnStep != nil {
				h.OnStep(ctx, e)
			}
			if other.OnStep != nil {
				other.OnStep(ctx, e)
			}
		},
		OnSearch: func(ctx context.Context, e *SearchEvent) {
			if h.OnSearch != nil {
				h.OnSearch(ctx, e)
			}
			if other.OnSearch != nil {
				other.OnSearch(ctx, e)
			}
		},
	}
}
