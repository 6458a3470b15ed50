// Package condition implements the stop conditions that bound a walk.
//
// Every condition reads a ports.Coverage view of the machine it measures and
// reports a fulfilment in [0,1]. A condition is fulfilled once its fulfilment
// reaches Threshold. Conditions can be built directly or decoded from a
// declarative Spec with Build.
package condition
