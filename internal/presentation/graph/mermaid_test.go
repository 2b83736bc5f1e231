package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/cnftree/internal/presentation/graph"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tree := domain.NewNode(domain.Exists,
		domain.Leaf("p"),
		domain.NewNode(domain.And,
			domain.NewNode(domain.ForAll,
				domain.Leaf("X"),
				domain.NewNode(domain.Or,
					domain.NewNode(domain.Not, domain.NewNode("p", domain.Leaf("X"))),
				),
			),
		),
	)

	want := `graph TD
    n0(("? p"))
    n1{{"&"}}
    n2(("! X"))
    n3{{"|"}}
    n4{{"~"}}
    n5["p"]
    n6(["X"])
    n5 --> n6
    n4 --> n5
    n3 --> n4
    n2 --> n3
    n1 --> n2
    n0 --> n1
`
	assert.Equal(t, want, graph.GenerateMermaid(tree))
}

func TestGenerateMermaid_Escaping(t *testing.T) {
	tree := domain.NewNode(domain.Or, domain.Leaf(`"Apple"`), domain.Leaf("'a<b'"))
	out := graph.GenerateMermaid(tree)

	assert.Contains(t, out, `n1["#quot;Apple#quot;"]`)
	assert.Contains(t, out, `n2["'a#lt;b'"]`)
	assert.False(t, strings.Contains(out, `""Apple""`))
}

func TestGenerateMermaid_Nil(t *testing.T) {
	assert.Equal(t, "graph TD\n", graph.GenerateMermaid(nil))
}
