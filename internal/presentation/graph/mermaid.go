package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/cnftree/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a tree.
// It applies semantic styling:
// - Markers (! and ?): ((Circle)) listing the bound names
// - Operators (& | ~): {{Hexagon}}
// - Variables: ([Stadium])
// - Symbols: [Rectangle]
// Nodes are numbered in preorder, so ids are stable for a given tree.
func GenerateMermaid(root *domain.Node) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if root == nil {
		return sb.String()
	}

	next := 0
	var visit func(n *domain.Node) string
	visit = func(n *domain.Node) string {
		id := fmt.Sprintf("n%d", next)
		next++

		label := n.Label
		children := n.Children
		opener, closer := "[", "]"
		switch {
		case (n.Label == domain.ForAll || n.Label == domain.Exists) && len(n.Children) > 0:
			opener, closer = "((", "))"
			if bound := n.Bound(); len(bound) > 0 {
				label += " " + strings.Join(bound, " ")
			}
			children = children[len(children)-1:]
		case domain.IsReserved(n.Label):
			opener, closer = "{{", "}}"
		case n.IsLeaf() && n.Label != "" && n.Label[0] >= 'A' && n.Label[0] <= 'Z':
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escapeLabel(label), closer)

		for _, c := range children {
			childID := visit(c)
			fmt.Fprintf(&sb, "    %s --> %s\n", id, childID)
		}
		return id
	}
	visit(root)
	return sb.String()
}

// escapeLabel makes a label safe inside a quoted Mermaid node text.
func escapeLabel(s string) string {
	r := strings.NewReplacer(`"`, "#quot;", "<", "#lt;", ">", "#gt;")
	return r.Replace(s)
}
