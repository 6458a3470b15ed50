// Package machine provides the in-memory finite state machine that path
// generators drive.
//
// A FiniteStateMachine tracks the current vertex, per-element visit counts and
// the history of real steps. Speculative walks are bracketed by Checkpoint and
// Rollback so that a search can explore the model without leaving a trace.
package machine
