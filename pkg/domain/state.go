package domain

import "fmt"

// NodeState is the result of executing a node for one tick.
type NodeState int

const (
	// Failure means the node finished and did not achieve its goal.
	Failure NodeState = iota
	// Success means the node finished and achieved its goal.
	Success
	// Running means the node has not finished and must be ticked again.
	Running
)

// String returns the lower-case name of the state.
func (s NodeState) String() string {
	switch s {
	case Failure:
		return "failure"
	case Success:
		return "success"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("NodeState(%d)", int(s))
	}
}

// Valid reports whether s is one of the three defined states.
func (s NodeState) Valid() bool {
	return s >= Failure && s <= Running
}

// Invert swaps Success and Failure. Running (and anything else) is returned unchanged.
func (s NodeState) Invert() NodeState {
	switch s {
	case Success:
		return Failure
	case Failure:
		return Success
	default:
		return s
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s NodeState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid node state %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *NodeState) UnmarshalText(text []byte) error {
	state, err := ParseNodeState(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// ParseNodeState parses the output of NodeState.String.
func ParseNodeState(s string) (NodeState, error) {
	switch s {
	case "failure":
		return Failure, nil
	case "success":
		return Success, nil
	case "running":
		return Running, nil
	}
	return Failure, fmt.Errorf("unknown node state %q", s)
}
