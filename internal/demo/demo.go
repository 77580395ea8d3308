// Package demo holds the sample trees ticked by the arbor CLI.
package demo

import (
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
)

type factory func(w io.Writer, b *dsl.Builder) (*dsl.Builder, error)

var catalog = map[string]factory{
	"basic": basic,
	"guard": guard,
}

// Names lists the available demos.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build assembles the named demo. Actions print their name to w. bb may be nil.
func Build(name string, w io.Writer, bb *blackboard.Blackboard, opts ...arbor.Option) (*arbor.Tree, error) {
	f, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown demo %q (available: %v)", name, Names())
	}
	b, err := f(w, dsl.New(dsl.WithBlackboard(bb)))
	if err != nil {
		return nil, fmt.Errorf("demo %s: %w", name, err)
	}
	return b.Build(opts...)
}

func say(w io.Writer, name string, s domain.NodeState) func() domain.NodeState {
	return func() domain.NodeState {
		fmt.Fprintln(w, name)
		return s
	}
}

// basic runs two steps and then a selector whose alternatives both fail, so the
// root fails after printing Action2 to Action5.
func basic(w io.Writer, b *dsl.Builder) (*dsl.Builder, error) {
	return b.
		Sequence().
		Action("Action2", say(w, "Action2", domain.Success)).
		Action("Action3", say(w, "Action3", domain.Success)).
		Selector().
		Action("Action4", say(w, "Action4", domain.Failure)).
		Action("Action5", say(w, "Action5", domain.Failure)).
		End().
		End(), nil
}

// key declares key on strict blackboards and lazily creates it otherwise.
func key[T blackboard.Scalar](bb *blackboard.Blackboard, name string, initial T) (blackboard.Handle[T], error) {
	if bb.Has(name) {
		return blackboard.GetOrCreate[T](bb, name)
	}
	if bb.Strict() {
		return blackboard.Declare(bb, name, initial)
	}
	h, err := blackboard.GetOrCreate[T](bb, name)
	if err != nil {
		return h, err
	}
	h.Set(initial)
	return h, nil
}

// guard is a sentry that patrols until an enemy comes close, fights it, and retreats to
// heal when hurt. It runs for many ticks and keeps all of its memory on the blackboard.
func guard(w io.Writer, b *dsl.Builder) (*dsl.Builder, error) {
	bb := b.Blackboard()
	hp, err := key(bb, "hp", 100)
	if err != nil {
		return nil, err
	}
	distance, err := key(bb, "enemy_distance", 10.0)
	if err != nil {
		return nil, err
	}
	alarm, err := key(bb, "alarm", false)
	if err != nil {
		return nil, err
	}
	mode, err := key(bb, "mode", "patrol")
	if err != nil {
		return nil, err
	}

	retreat := func() domain.NodeState {
		fmt.Fprintln(w, "retreat")
		mode.Set("retreat")
		hp.Set(hp.Get() + 15)
		distance.Set(distance.Get() + 1)
		if hp.Get() >= 60 {
			return domain.Success
		}
		return domain.Running
	}
	attack := func() domain.NodeState {
		fmt.Fprintln(w, "attack")
		mode.Set("fight")
		alarm.Set(true)
		hp.Set(hp.Get() - 25)
		return domain.Success
	}
	patrol := func() domain.NodeState {
		fmt.Fprintln(w, "patrol")
		mode.Set("patrol")
		distance.Set(distance.Get() - 2.5)
		return domain.Running
	}

	return b.
		Selector().
		Sequence().
		ConditionExpr("low hp", "hp < 30").
		Action("retreat", retreat).
		End().
		Sequence().
		ConditionExpr("enemy close", "enemy_distance < 3").
		Action("attack", attack).
		End().
		Sequence().
		Inverter().
		Condition("alarm raised", alarm.Get).
		End().
		Action("patrol", patrol).
		End().
		Action("stand guard", say(w, "stand guard", domain.Running)).
		End(), nil
}
