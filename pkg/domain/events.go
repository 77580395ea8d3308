package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTickStart EventType = "tick_start"
	EventTickEnd   EventType = "tick_end"
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
)

// Event describes one step of a tick. Node fields are empty for tick events,
// State and Err are only set on the closing events.
type Event struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	TreeID    string        `json:"tree_id"`
	Tick      uint64        `json:"tick"`
	NodeID    string        `json:"node_id,omitempty"`
	NodeKind  NodeKind      `json:"node_kind"`
	NodeName  string        `json:"node_name,omitempty"`
	State     NodeState     `json:"state"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for tree observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnTickStart func(context.Context, *Event)
	OnTickEnd   func(context.Context, *Event)
	OnNodeEnter func(context.Context, *Event)
	OnNodeLeave func(context.Context, *Event)
}

// Empty reports whether no hook is set.
func (h LifecycleHooks) Empty() bool {
	return h.OnTickStart == nil && h.OnTickEnd == nil && h.OnNodeEnter == nil && h.OnNodeLeave == nil
}
