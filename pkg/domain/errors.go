package domain

import (
	"errors"
	"fmt"
)

// Error classes. Use errors.Is against these to classify a reported error.
var (
	// ErrStructural classifies malformed trees: missing root, missing child, misuse of a finished builder.
	ErrStructural = errors.New("structural error")
	// ErrTypeMismatch classifies blackboard access with a type different from the entry's type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInvariant classifies attempts to break the one-child or one-root invariants.
	ErrInvariant = errors.New("invariant violation")
)

// Structural causes.
var (
	ErrNoRoot           = errors.New("tree has no root node")
	ErrMissingChild     = errors.New("decorator has no child")
	ErrUnclosedNode     = errors.New("node was not closed with End")
	ErrNothingToClose   = errors.New("no open node to close")
	ErrBuilderFinalized = errors.New("builder already built")
	ErrGraphSealed      = errors.New("graph is sealed")
	ErrNilCallable      = errors.New("leaf callable is nil")
	ErrInvalidState     = errors.New("leaf returned an invalid node state")
	ErrInvalidNode      = errors.New("node index out of range")
	ErrUnreachableNode  = errors.New("node is not reachable from the root")
)

// Invariant causes.
var (
	ErrChildAlreadySet = errors.New("decorator child already set")
	ErrRootAlreadySet  = errors.New("tree root already set")
	ErrNotAContainer   = errors.New("node cannot own children")
	ErrNodeOwned       = errors.New("node already has an owner")
	ErrCycle           = errors.New("attaching node would create a cycle")
)

// Blackboard errors.
var (
	// ErrKeyNotFound is returned when reading a key that does not exist.
	ErrKeyNotFound = errors.New("blackboard key not found")
	// ErrUnknownKey is returned by a strict blackboard when a key was never declared.
	ErrUnknownKey = errors.New("blackboard key not declared")
	// ErrKeyDeclared is returned when declaring a key twice.
	ErrKeyDeclared = errors.New("blackboard key already declared")
)

// ErrLeafPanic is wrapped by the error reported when a leaf callable panics during a tick.
var ErrLeafPanic = errors.New("leaf callable panicked")

// ErrSnapshotNotFound is returned when a snapshot cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// StructuralError reports a malformed tree or a misused builder.
type StructuralError struct {
	Op   string // operation that detected the problem, e.g. "build", "execute"
	Node string // node id, empty when not tied to a node
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s: %s: %v", ErrStructural, e.Op, e.Node, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrStructural, e.Op, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStructural) hold.
func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// InvariantViolation reports an attempt to attach more than one child to a decorator,
// or more than one root to a tree.
type InvariantViolation struct {
	Op   string
	Node string
	Err  error
}

func (e *InvariantViolation) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s: %s: %v", ErrInvariant, e.Op, e.Node, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrInvariant, e.Op, e.Err)
}

func (e *InvariantViolation) Unwrap() error { return e.Err }

func (e *InvariantViolation) Is(target error) bool { return target == ErrInvariant }

// TypeMismatchError reports a blackboard key accessed with the wrong type.
type TypeMismatchError struct {
	Key  string
	Want ValueType // type requested by the caller
	Have ValueType // type established when the key was created
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: key %q holds %s, requested %s", ErrTypeMismatch, e.Key, e.Have, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }
