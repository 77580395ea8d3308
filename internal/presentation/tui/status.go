package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/runner"
)

// StatusPrinter writes one line per tick, colored by the root result.
type StatusPrinter struct {
	w   io.Writer
	out *termenv.Output
}

// NewStatusPrinter creates a printer for w. Colors are disabled when w is not a terminal.
func NewStatusPrinter(w io.Writer) *StatusPrinter {
	var opts []termenv.OutputOption
	if !IsTerminal(w) {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &StatusPrinter{w: w, out: termenv.NewOutput(w, opts...)}
}

// Print writes s.
func (p *StatusPrinter) Print(s runner.Status) {
	state := p.out.String(fmt.Sprintf("%-8s", s.State)).Bold().Foreground(p.out.Color(stateColor(s.State)))
	if s.Error != "" {
		fmt.Fprintf(p.w, "tick %4d  %s  %s\n", s.Tick, state, p.out.String(s.Error).Faint())
		return
	}
	fmt.Fprintf(p.w, "tick %4d  %s\n", s.Tick, state)
}

func stateColor(s domain.NodeState) string {
	switch s {
	case domain.Success:
		return "2"
	case domain.Running:
		return "3"
	default:
		return "1"
	}
}
