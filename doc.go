/*
Package arbor is a behavior tree engine for agents that are re-evaluated once per simulation tick.

A tree is assembled once from reusable node primitives (actions, conditions, sequences,
selectors and decorators) and ticked with Execute. Every tick walks the tree depth-first from
the root and yields one of three states: Failure, Success or Running. Nodes share data through
a typed blackboard owned by the tree.

# Concept

Composite nodes decide which children run and how their results combine:

  - Sequence runs children in order and stops at the first child that does not succeed.
  - Selector runs children in order and stops at the first child that does not fail.
  - Inverter swaps Success and Failure of its single child; Running passes through.

Leaves are plain Go functions. Running is an ordinary result: the tree keeps no memory between
ticks, so a long-running action tracks its own progress inside its closure.

# Usage

Trees are built with the fluent builder in pkg/dsl:

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/arbor/pkg/blackboard"
		"github.com/aretw0/arbor/pkg/domain"
		"github.com/aretw0/arbor/pkg/dsl"
	)

	func main() {
		b := dsl.New()
		hp, _ := blackboard.GetOrCreate[int](b.Blackboard(), "hp")
		hp.Set(30)

		tree, err := b.
			Selector().
				Sequence().
					Condition("low hp", func() bool { return hp.Get() < 50 }).
					Action("flee", func() domain.NodeState { return domain.Running }).
				End().
				Action("attack", func() domain.NodeState { return domain.Success }).
			End().
			Build()
		if err != nil {
			log.Fatal(err)
		}

		state, err := tree.Execute()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(state) // running
	}

A tree and its blackboard are not safe for concurrent use. pkg/runner serializes ticks when a
tree is shared with other goroutines, for example the HTTP introspection server.
*/
package arbor
