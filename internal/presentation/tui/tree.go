package tui

import (
	"io"
	"strings"

	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/muesli/termenv"
)

// TreePrinter writes a tree as an indented outline, colouring operators,
// markers, variables and symbols differently.
type TreePrinter struct {
	profile termenv.Profile
}

// NewTreePrinter creates a printer for the given colour profile.
// termenv.Ascii disables colours.
func NewTreePrinter(profile termenv.Profile) *TreePrinter {
	return &TreePrinter{profile: profile}
}

// Print writes n to w.
func (p *TreePrinter) Print(w io.Writer, n *domain.Node) error {
	var sb strings.Builder
	p.write(&sb, n, "", "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (p *TreePrinter) write(sb *strings.Builder, n *domain.Node, prefix, branch string) {
	sb.WriteString(prefix)
	sb.WriteString(branch)
	sb.WriteString(p.label(n))
	sb.WriteByte('\n')

	switch branch {
	case "├─ ":
		prefix += "│  "
	case "└─ ":
		prefix += "   "
	}

	children := n.Children
	// Marker names are printed inline with the marker itself.
	if isMarker(n) {
		children = children[len(children)-1:]
	}
	for i, c := range children {
		next := "├─ "
		if i == len(children)-1 {
			next = "└─ "
		}
		p.write(sb, c, prefix, next)
	}
}

func (p *TreePrinter) label(n *domain.Node) string {
	color := func(s, hex string) string {
		return p.profile.String(s).Foreground(p.profile.Color(hex)).String()
	}
	switch {
	case isMarker(n):
		hex := "#a3e635"
		if n.Label == domain.ForAll {
			hex = "#38bdf8"
		}
		parts := []string{p.profile.String(n.Label).Bold().Foreground(p.profile.Color("#f472b6")).String()}
		for _, b := range n.Bound() {
			parts = append(parts, color(b, hex))
		}
		return strings.Join(parts, " ")
	case domain.IsReserved(n.Label):
		return p.profile.String(n.Label).Bold().Foreground(p.profile.Color("#c084fc")).String()
	case isVariable(n):
		return color(n.Label, "#38bdf8")
	}
	return color(n.Label, "#a3e635")
}

func isMarker(n *domain.Node) bool {
	return (n.Label == domain.ForAll || n.Label == domain.Exists) && len(n.Children) > 0
}

func isVariable(n *domain.Node) bool {
	return n.IsLeaf() && n.Label != "" && n.Label[0] >= 'A' && n.Label[0] <= 'Z'
}
