/*
Package ports defines the driven ports (interfaces) of the graphwalker core.

These interfaces decouple the path generators from the model implementation they
walk and from the storage and loading of models.

# Key Interfaces

  - Machine: The model access contract. Exposes the current position, outgoing edges,
    real and speculative movement, and checkpoint/rollback.
  - Coverage: Read-only view of a machine used by stop conditions.
  - StopCondition: A boolean goal test plus a continuous fulfilment in [0,1].
  - PathGenerator: The HasNext/GetNext protocol shared by every generator.
  - ModelLoader: Produces a Model from an external source (files, Loam repositories).
  - ModelStore: Persists named models for online sessions.
*/
package ports
