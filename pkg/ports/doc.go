/*
Package ports defines the driven ports (interfaces) that arbor uses to reach the outside world.

# Key Interfaces

  - SnapshotStore: persists blackboard snapshots so a tree can resume after a restart.
  - DistributedLocker: lets several processes agree on who ticks a given tree.

The contract test suites in pkg/ports/tests verify any implementation.
*/
package ports
