package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Overlay carries the result of the last tick, keyed by node id.
type Overlay struct {
	States map[string]domain.NodeState
}

// GenerateMermaid produces a Mermaid flowchart from nodes as returned by Tree.Inspect.
// It applies semantic shapes:
// - Sequence: [Rectangle] labelled with an arrow
// - Selector: {Rhombus}
// - Inverter: [/Parallelogram/]
// - Condition: ([Stadium])
// - Action: [Rectangle]
// Edges are numbered in execution order. An overlay colors nodes by their last result.
func GenerateMermaid(nodes []domain.NodeInfo, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[int]string, len(nodes))
	for _, n := range nodes {
		ids[n.Index] = sanitizeMermaidID(n.ID)
	}

	for _, n := range nodes {
		safeID := ids[n.Index]
		opener, closer := "[", "]"
		label := n.Name

		switch n.Kind {
		case domain.KindSequence:
			label = "→ sequence"
		case domain.KindSelector:
			opener, closer = "{", "}"
			label = "? selector"
		case domain.KindInverter:
			opener, closer = "[/", "/]"
			label = "! inverter"
		case domain.KindCondition:
			opener, closer = "([", "])"
		}
		if label == "" {
			label = n.ID
		}
		label = strings.ReplaceAll(label, "\"", "'")

		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for pos, c := range n.Children {
			if n.Kind.IsDecorator() {
				fmt.Fprintf(&sb, "    %s --> %s\n", safeID, ids[c])
				continue
			}
			fmt.Fprintf(&sb, "    %s -- \"%d\" --> %s\n", safeID, pos+1, ids[c])
		}
	}

	if overlay != nil && len(overlay.States) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef success fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failure fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef running fill:#fff59d,stroke:#f9a825,stroke-width:4px,color:#000;\n")

		for _, n := range nodes {
			if state, ok := overlay.States[n.ID]; ok {
				fmt.Fprintf(&sb, "    class %s %s;\n", ids[n.Index], state)
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer("#", "_", ".", "_", "-", "_", "/", "_", "\\", "_").Replace(id)
}
