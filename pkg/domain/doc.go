/*
Package domain contains the core types shared by every part of the arbor behavior-tree engine.

It defines the tri-state tick result, the node kinds, the blackboard value tags, the error
taxonomy and the lifecycle events emitted while a tree is ticked. This package is kept pure
and free of external dependencies, so adapters and the runtime can share it without cycles.

# Key Entities

  - NodeState: the result of one tick of a node (Failure, Success, Running).
  - NodeKind: the kind of a node (Action, Condition, Sequence, Selector, Inverter).
  - ValueType: the type tag of a blackboard entry (Bool, Int, Double, String).
  - StructuralError, TypeMismatchError, InvariantViolation: reported misuse, never panics.
  - LifecycleHooks: callbacks fired around ticks and node executions.
*/
package domain
