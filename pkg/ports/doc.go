/*
Package ports defines the driven ports (interfaces) around the turing engine.

These interfaces decouple run drivers from storage backends, so an execution
can be checkpointed and resumed against memory, the filesystem or Redis.

# Key Interfaces

  - SnapshotStore: persists and loads execution snapshots by run ID.
  - RunLocker: guarantees a single owner per run ID while a run is advanced.
*/
package ports
