package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/cnftree/internal/presentation/graph"
	"github.com/aretw0/cnftree/internal/presentation/tui"
	"github.com/aretw0/cnftree/pkg/domain"
)

// Summary describes a converted problem.
type Summary struct {
	Document string
	Symbols  []string
	// Variables are the distinct variable names, in first-seen order.
	Variables []string
	Clauses   []ClauseSummary
	Nodes     int
	Depth     int
}

// ClauseSummary describes one universally closed clause.
type ClauseSummary struct {
	Variables []string
	Literals  int
	Body      string
}

// Summarize inspects a tree produced by the converter.
func Summarize(document string, tree *domain.Node) Summary {
	s := Summary{
		Document: document,
		Symbols:  tree.Bound(),
		Nodes:    tree.Size(),
		Depth:    depth(tree),
	}

	seen := map[string]bool{}
	if conj := tree.Body(); conj != nil {
		for _, clause := range conj.Children {
			vars := clause.Bound()
			for _, v := range vars {
				if !seen[v] {
					seen[v] = true
					s.Variables = append(s.Variables, v)
				}
			}
			body := clause.Body()
			cs := ClauseSummary{Variables: vars}
			if body != nil {
				cs.Literals = len(body.Children)
				cs.Body = body.String()
			}
			s.Clauses = append(s.Clauses, cs)
		}
	}
	return s
}

func depth(n *domain.Node) int {
	d := 0
	for _, c := range n.Children {
		d = max(d, depth(c))
	}
	return d + 1
}

// Markdown renders the summary as a report, optionally with a Mermaid
// diagram of the tree.
func (s Summary) Markdown(tree *domain.Node, withGraph bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", code(s.Document))
	sb.WriteString("| Clauses | Symbols | Variables | Nodes | Depth |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d | %d |\n\n", len(s.Clauses), len(s.Symbols), len(s.Variables), s.Nodes, s.Depth)

	sb.WriteString("## Symbols\n\n")
	sb.WriteString(codeList(s.Symbols))
	sb.WriteString("\n\n## Clauses\n\n")
	if len(s.Clauses) == 0 {
		sb.WriteString("_none_\n")
	}
	for i, c := range s.Clauses {
		fmt.Fprintf(&sb, "%d. %s", i+1, code(c.Body))
		if len(c.Variables) > 0 {
			fmt.Fprintf(&sb, " for all %s", codeList(c.Variables))
		}
		sb.WriteByte('\n')
	}

	if withGraph {
		sb.WriteString("\n## Tree\n\n```mermaid\n")
		sb.WriteString(graph.GenerateMermaid(tree))
		sb.WriteString("```\n")
	}
	return sb.String()
}

func code(s string) string {
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

func codeList(items []string) string {
	if len(items) == 0 {
		return "_none_"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = code(item)
	}
	return strings.Join(parts, " ")
}

// InspectOptions configures RunInspect.
type InspectOptions struct {
	// Input is a problem path, "-" for standard input.
	Input string
	Graph bool
	// Raw prints the markdown source instead of rendering it.
	Raw bool
}

// RunInspect converts one problem and prints a report about it.
func RunInspect(ctx context.Context, app *App, opts InspectOptions, in io.Reader, out io.Writer) error {
	input := firstNonEmpty(opts.Input, "-")
	tree, err := transformInput(ctx, app, input, in)
	if err != nil {
		return err
	}
	name := input
	if input == "-" {
		name = StdinName
	}

	report := Summarize(name, tree).Markdown(tree, opts.Graph)
	if !opts.Raw {
		if report, err = tui.NewRenderer()(report); err != nil {
			return err
		}
	}
	_, err = io.WriteString(out, report)
	return err
}
