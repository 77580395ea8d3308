package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/aretw0/arbor/pkg/domain"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
// It adapts to the terminal background and wraps at width columns.
func NewRenderer(width int) (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// TreeMarkdown describes nodes as a nested markdown list, one node per line.
func TreeMarkdown(title string, nodes []domain.NodeInfo) string {
	byIndex := make(map[int]domain.NodeInfo, len(nodes))
	for _, n := range nodes {
		byIndex[n.Index] = n
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	var write func(n domain.NodeInfo, depth int)
	write = func(n domain.NodeInfo, depth int) {
		label := "**" + n.Kind.String() + "**"
		if n.Name != "" {
			label += " " + n.Name
		}
		fmt.Fprintf(&sb, "%s- %s `%s`\n", strings.Repeat("  ", depth), label, n.ID)
		for _, c := range n.Children {
			write(byIndex[c], depth+1)
		}
	}
	for _, n := range nodes {
		if n.Root {
			write(n, 0)
		}
	}
	return sb.String()
}
