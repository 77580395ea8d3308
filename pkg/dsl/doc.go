/*
Package dsl provides a fluent builder for assembling arbor behavior trees in Go code.

A single Builder keeps a stack of open composite and decorator nodes. Leaves attach to the
innermost open node, Sequence, Selector and Inverter open a new level, and End closes it.
The first node added becomes the root.

	b := dsl.New()
	target, _ := blackboard.GetOrCreate[string](b.Blackboard(), "target")

	tree, err := b.
		Sequence().
			Condition("has target", func() bool { return target.Get() != "" }).
			Inverter().
				ConditionExpr("not in range", "distance > 5").
			End().
			Action("attack", attack).
		End().
		Build()

Errors do not interrupt the chain. The first mistake is remembered, every later call becomes
a no-op, and Build returns it without producing a tree. A Builder is single-use and not safe
for concurrent use.
*/
package dsl
