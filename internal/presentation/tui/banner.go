package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the arbor banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`    __ _ _ __| |__   ___  _ __ `, "#81c784"},
		{`   / _' | '__| '_ \ / _ \| '__|`, "#66bb6a"},
		{`  | (_| | |  | |_) | (_) | |   `, "#4caf50"},
		{`   \__,_|_|  |_.__/ \___/|_|   `, "#43a047"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
