// Package conditions compiles expr-lang expressions into blackboard-backed predicates.
//
// Blackboard keys are exposed as top-level variables, so an expression like
//
//	hp < 50 && !alarm
//
// reads the "hp" and "alarm" entries of the tree's blackboard on every evaluation.
// Keys that do not exist evaluate to nil.
package conditions

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/aretw0/arbor/pkg/blackboard"
)

// ErrEmptyExpression is returned when compiling an empty expression.
var ErrEmptyExpression = errors.New("empty expression")

// Condition is a compiled boolean expression bound to one blackboard.
// Like the blackboard itself, it is not safe for concurrent use.
type Condition struct {
	source  string
	program *vm.Program
	bb      *blackboard.Blackboard
	logger  *slog.Logger
	lastErr error
}

// Option configures a Condition.
type Option func(*Condition)

// WithLogger sets the logger that reports evaluation errors.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Condition) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Compile parses source and binds it to bb. Syntax errors are reported here, type errors
// that depend on blackboard contents are reported by Match through LastError.
func Compile(source string, bb *blackboard.Blackboard, opts ...Option) (*Condition, error) {
	if source == "" {
		return nil, ErrEmptyExpression
	}
	if bb == nil {
		return nil, errors.New("compile condition: nil blackboard")
	}

	program, err := expr.Compile(source,
		expr.Env(map[string]any{}),
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", source, err)
	}

	c := &Condition{
		source:  source,
		program: program,
		bb:      bb,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Source returns the expression text.
func (c *Condition) Source() string {
	return c.source
}

// Match evaluates the expression against the current blackboard contents.
// Evaluation errors count as false; LastError tells them apart from a real false.
func (c *Condition) Match() bool {
	c.lastErr = nil

	result, err := expr.Run(c.program, c.bb.Map())
	if err != nil {
		c.lastErr = fmt.Errorf("evaluate condition %q: %w", c.source, err)
		c.logger.Error("condition evaluation failed", "expression", c.source, "error", err)
		return false
	}

	b, ok := result.(bool)
	if !ok {
		c.lastErr = fmt.Errorf("evaluate condition %q: non-boolean result %T", c.source, result)
		c.logger.Warn("condition returned non-boolean result", "expression", c.source, "type", fmt.Sprintf("%T", result))
		return false
	}
	return b
}

// LastError returns the error of the most recent Match, or nil if it evaluated cleanly.
func (c *Condition) LastError() error {
	return c.lastErr
}
