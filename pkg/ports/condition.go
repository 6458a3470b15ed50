package ports

// StopCondition decides when a generator is done.
type StopCondition interface {
	// IsFulfilled reports whether the goal has been reached.
	IsFulfilled() bool

	// Fulfilment returns the progress towards the goal in [0,1].
	// Generators use it both as a goal threshold and as a search heuristic.
	Fulfilment() float64
}
