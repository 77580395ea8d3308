// Package gobt bridges arbor trees and github.com/joeycumines/go-behaviortree nodes.
//
// An arbor tree can run as a leaf inside a go-behaviortree tree, and any go-behaviortree
// node can run as an arbor action. Statuses map one to one; go-behaviortree errors become
// Failure on the arbor side.
package gobt

import (
	"context"
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
)

// ToStatus maps an arbor state to a go-behaviortree status.
func ToStatus(s domain.NodeState) bt.Status {
	switch s {
	case domain.Success:
		return bt.Success
	case domain.Running:
		return bt.Running
	default:
		return bt.Failure
	}
}

// FromStatus maps a go-behaviortree status to an arbor state. Unknown statuses are Failure.
func FromStatus(s bt.Status) domain.NodeState {
	switch s {
	case bt.Success:
		return domain.Success
	case bt.Running:
		return domain.Running
	default:
		return domain.Failure
	}
}

// Node exposes tree as a go-behaviortree leaf. Each tick of the leaf ticks the whole tree.
func Node(tree *arbor.Tree) bt.Node {
	return NodeContext(context.Background(), tree)
}

// NodeContext is Node with a context forwarded to the tree's hooks and spans.
func NodeContext(ctx context.Context, tree *arbor.Tree) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		s, err := tree.ExecuteContext(ctx)
		if err != nil {
			return bt.Failure, fmt.Errorf("arbor tree %s: %w", tree.ID(), err)
		}
		return ToStatus(s), nil
	})
}

// Option configures Action.
type Option func(*actionConfig)

type actionConfig struct {
	onError func(error)
}

// WithErrorHandler receives errors returned by the wrapped node.
func WithErrorHandler(fn func(error)) Option {
	return func(c *actionConfig) {
		c.onError = fn
	}
}

// Action wraps n as an arbor action callable.
func Action(n bt.Node, opts ...Option) func() domain.NodeState {
	var cfg actionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return func() domain.NodeState {
		s, err := n.Tick()
		if err != nil {
			if cfg.onError != nil {
				cfg.onError(err)
			}
			return domain.Failure
		}
		return FromStatus(s)
	}
}
