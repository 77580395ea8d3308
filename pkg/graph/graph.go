// Package graph stores the nodes of a behavior tree in an arena.
//
// Nodes are addressed by index and composites/decorators store the indices of their
// children, so there is no pointer ownership to transfer while a tree is assembled.
// A Graph is mutable until Seal succeeds and immutable afterwards.
package graph

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Node is one element of the arena.
type Node struct {
	Kind domain.NodeKind
	Name string

	// Action is the callable of a KindAction node.
	Action func() domain.NodeState
	// Predicate is the callable of a KindCondition node.
	Predicate func() bool

	// Children holds child indices in execution order. Callers must not modify it.
	Children []int
}

// Graph is an arena of nodes with a single root.
type Graph struct {
	nodes  []Node
	parent []int
	root   int
	sealed bool
}

const none = -1

// New creates an empty graph.
func New() *Graph {
	return &Graph{root: none}
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Sealed reports whether the graph has been sealed.
func (g *Graph) Sealed() bool {
	return g.sealed
}

// ID returns a stable diagnostic identifier for node i, e.g. "sequence#0".
func (g *Graph) ID(i int) string {
	if i < 0 || i >= len(g.nodes) {
		return fmt.Sprintf("invalid#%d", i)
	}
	return fmt.Sprintf("%s#%d", g.nodes[i].Kind, i)
}

// At returns node i. It panics if i is out of range, like a slice index.
func (g *Graph) At(i int) Node {
	return g.nodes[i]
}

// Root returns the root index.
func (g *Graph) Root() (int, bool) {
	return g.root, g.root != none
}

// Parent returns the parent of node i, or false for the root and detached nodes.
func (g *Graph) Parent(i int) (int, bool) {
	if i < 0 || i >= len(g.parent) || g.parent[i] == none {
		return none, false
	}
	return g.parent[i], true
}

// Add appends a detached node and returns its index.
// Leaves must carry their callable; any Children on n are ignored.
func (g *Graph) Add(n Node) (int, error) {
	if g.sealed {
		return none, &domain.StructuralError{Op: "add", Err: domain.ErrGraphSealed}
	}
	switch n.Kind {
	case domain.KindAction:
		if n.Action == nil {
			return none, &domain.StructuralError{Op: "add", Node: n.Name, Err: domain.ErrNilCallable}
		}
	case domain.KindCondition:
		if n.Predicate == nil {
			return none, &domain.StructuralError{Op: "add", Node: n.Name, Err: domain.ErrNilCallable}
		}
	case domain.KindSequence, domain.KindSelector, domain.KindInverter:
	default:
		return none, &domain.StructuralError{Op: "add", Node: n.Name, Err: fmt.Errorf("unknown node kind %s", n.Kind)}
	}
	n.Children = nil
	g.nodes = append(g.nodes, n)
	g.parent = append(g.parent, none)
	return len(g.nodes) - 1, nil
}

// SetRoot makes node i the root. A graph has exactly one root, set once.
func (g *Graph) SetRoot(i int) error {
	if g.sealed {
		return &domain.StructuralError{Op: "set root", Err: domain.ErrGraphSealed}
	}
	if err := g.check("set root", i); err != nil {
		return err
	}
	if g.root != none {
		return &domain.InvariantViolation{Op: "set root", Node: g.ID(i), Err: domain.ErrRootAlreadySet}
	}
	if g.parent[i] != none {
		return &domain.InvariantViolation{Op: "set root", Node: g.ID(i), Err: domain.ErrNodeOwned}
	}
	g.root = i
	return nil
}

// Attach makes child a child of parent. Composites append it to their ordered list;
// decorators accept it only if they have no child yet.
func (g *Graph) Attach(parent, child int) error {
	if g.sealed {
		return &domain.StructuralError{Op: "attach", Err: domain.ErrGraphSealed}
	}
	if err := g.check("attach", parent); err != nil {
		return err
	}
	if err := g.check("attach", child); err != nil {
		return err
	}
	p := &g.nodes[parent]
	switch {
	case p.Kind.IsLeaf():
		return &domain.InvariantViolation{Op: "attach", Node: g.ID(parent), Err: domain.ErrNotAContainer}
	case p.Kind.IsDecorator() && len(p.Children) > 0:
		return &domain.InvariantViolation{Op: "attach", Node: g.ID(parent), Err: domain.ErrChildAlreadySet}
	}
	if g.parent[child] != none || g.root == child {
		return &domain.InvariantViolation{Op: "attach", Node: g.ID(child), Err: domain.ErrNodeOwned}
	}
	for a := parent; a != none; a = g.parent[a] {
		if a == child {
			return &domain.InvariantViolation{Op: "attach", Node: g.ID(child), Err: domain.ErrCycle}
		}
	}
	p.Children = append(p.Children, child)
	g.parent[child] = parent
	return nil
}

func (g *Graph) check(op string, i int) error {
	if i < 0 || i >= len(g.nodes) {
		return &domain.StructuralError{Op: op, Node: fmt.Sprintf("#%d", i), Err: domain.ErrInvalidNode}
	}
	return nil
}

// Validate checks that the graph is a complete tree: a root exists, every decorator
// has its child and every node is reachable from the root.
// Empty composites are allowed.
func (g *Graph) Validate() error {
	if g.root == none {
		return &domain.StructuralError{Op: "validate", Err: domain.ErrNoRoot}
	}
	reached := 0
	var firstErr error
	g.Walk(func(i, _ int) bool {
		reached++
		n := g.nodes[i]
		if n.Kind.IsDecorator() && len(n.Children) == 0 && firstErr == nil {
			firstErr = &domain.StructuralError{Op: "validate", Node: g.ID(i), Err: domain.ErrMissingChild}
		}
		return true
	})
	if firstErr != nil {
		return firstErr
	}
	if reached != len(g.nodes) {
		for i := range g.nodes {
			if !g.reachable(i) {
				return &domain.StructuralError{Op: "validate", Node: g.ID(i), Err: domain.ErrUnreachableNode}
			}
		}
	}
	return nil
}

func (g *Graph) reachable(i int) bool {
	for a := i; a != none; a = g.parent[a] {
		if a == g.root {
			return true
		}
	}
	return false
}

// Seal validates the graph and freezes it.
func (g *Graph) Seal() error {
	if g.sealed {
		return nil
	}
	if err := g.Validate(); err != nil {
		return err
	}
	g.sealed = true
	return nil
}

// Walk visits nodes depth-first in execution order starting at the root.
// Returning false from fn skips the node's children.
func (g *Graph) Walk(fn func(i, depth int) bool) {
	if g.root == none {
		return
	}
	g.walk(g.root, 0, fn)
}

func (g *Graph) walk(i, depth int, fn func(i, depth int) bool) {
	if !fn(i, depth) {
		return
	}
	for _, c := range g.nodes[i].Children {
		g.walk(c, depth+1, fn)
	}
}

// Inspect describes the nodes reachable from the root in depth-first order.
func (g *Graph) Inspect() []domain.NodeInfo {
	infos := make([]domain.NodeInfo, 0, len(g.nodes))
	g.Walk(func(i, _ int) bool {
		n := g.nodes[i]
		var children []int
		if len(n.Children) > 0 {
			children = append([]int(nil), n.Children...)
		}
		infos = append(infos, domain.NodeInfo{
			Index:    i,
			ID:       g.ID(i),
			Kind:     n.Kind,
			Name:     n.Name,
			Children: children,
			Root:     i == g.root,
		})
		return true
	})
	return infos
}
