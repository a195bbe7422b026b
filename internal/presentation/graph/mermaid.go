package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/renfebot/pkg/domain"
)

// GraphOverlay contains the state of one conversation to highlight on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// NewOverlay builds the overlay for a stored conversation.
func NewOverlay(state *domain.State) *GraphOverlay {
	if state == nil {
		return nil
	}
	return &GraphOverlay{
		VisitedNodes: state.History,
		CurrentNode:  state.CurrentNodeID,
	}
}

// GenerateMermaid produces a Mermaid flowchart of the conversation.
// Shapes:
//   - Entry step: ((Circle))
//   - Search: [[Subroutine]]
//   - Question: [/Parallelogram/], labelled with the expected input
//   - Text: [Rectangle]
func GenerateMermaid(nodes []domain.Node, entry string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == entry:
			opener, closer = "((", "))"
		case node.Type == domain.NodeTypeSearch:
			opener, closer = "[[", "]]"
		case node.IsQuestion():
			opener, closer = "[/", "/]"
		}

		label := node.ID
		if node.InputType != "" {
			label = fmt.Sprintf("%s <br/> %s", node.ID, node.InputType)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, t := range node.Transitions {
			arrow := "-->"
			if t.Condition != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(t.Condition, "\"", "'"))
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(t.ToNodeID))
		}

		signals := make([]string, 0, len(node.OnSignal))
		for name := range node.OnSignal {
			signals = append(signals, name)
		}
		sort.Strings(signals)
		for _, name := range signals {
			fmt.Fprintf(&sb, "    %s -. ⚡ %s .-> %s\n", safeID, name, sanitizeMermaidID(node.OnSignal[name]))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID == "" || seen[safeID] {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

var mermaidReplacer = strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")

func sanitizeMermaidID(id string) string {
	return mermaidReplacer.Replace(id)
}
