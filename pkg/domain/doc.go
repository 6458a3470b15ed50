/*
Package domain contains the core domain models of the graphwalker path generator.

It defines the entities a test walk is made of: the Model (a finite state machine of
Vertices and Edges), the Path a generator plans, and the Step it reports after each
real move. The package is kept pure and free of I/O so every adapter and generator
can share it.

# Key Entities

  - Vertex: A state of the model. Its label may carry a sub-state after a '/'.
  - Edge: A transition between two vertices, optionally weighted for random walks.
  - Model: The complete graph plus its start vertex.
  - Path: An ordered, contiguous sequence of edges.
  - Step: The (edge label, vertex label) pair produced by one real move.
  - Statistics: Coverage counters reported by a machine.
*/
package domain
