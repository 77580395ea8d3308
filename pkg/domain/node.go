package domain

import "fmt"

// NodeKind identifies the behavior of a node.
type NodeKind int

const (
	// KindAction wraps a callable returning a NodeState.
	KindAction NodeKind = iota
	// KindSequence ticks children in order until one does not succeed.
	KindSequence
	// KindSelector ticks children in order until one does not fail.
	KindSelector
	// KindInverter swaps the Success and Failure of its single child.
	KindInverter
	// KindCondition wraps a boolean predicate.
	KindCondition
)

// String returns the lower-case name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindSequence:
		return "sequence"
	case KindSelector:
		return "selector"
	case KindInverter:
		return "inverter"
	case KindCondition:
		return "condition"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// IsLeaf reports whether nodes of this kind have no children.
func (k NodeKind) IsLeaf() bool {
	return k == KindAction || k == KindCondition
}

// IsComposite reports whether nodes of this kind own an ordered list of children.
func (k NodeKind) IsComposite() bool {
	return k == KindSequence || k == KindSelector
}

// IsDecorator reports whether nodes of this kind own exactly one child.
func (k NodeKind) IsDecorator() bool {
	return k == KindInverter
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NodeKind) UnmarshalText(text []byte) error {
	kind, err := ParseNodeKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseNodeKind parses the output of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, error) {
	switch s {
	case "action":
		return KindAction, nil
	case "sequence":
		return KindSequence, nil
	case "selector":
		return KindSelector, nil
	case "inverter":
		return KindInverter, nil
	case "condition":
		return KindCondition, nil
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// NodeInfo is a read-only description of a node, used for introspection and rendering.
type NodeInfo struct {
	Index    int      `json:"index"`
	ID       string   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []int    `json:"children,omitempty"`
	Root     bool     `json:"root,omitempty"`
}
