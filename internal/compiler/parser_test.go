package compiler_test

import (
	"errors"
	"testing"

	"github.com/aretw0/cnftree/internal/compiler"
	"github.com/aretw0/cnftree/pkg/ast"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, err := compiler.NewParser().Parse("test.p", []byte(src))
	require.NoError(t, err)
	return doc
}

func TestParse_ExampleClause(t *testing.T) {
	doc := parse(t, "cnf(test, axiom, ~ p(f(X, g(Y, Z))) | X = Y | $false).")

	require.Len(t, doc.Entries, 1)
	entry, ok := doc.Entries[0].(*ast.ClauseEntry)
	require.True(t, ok, "expected a clause entry")
	assert.Equal(t, "test", entry.Name)
	assert.Equal(t, "axiom", entry.Role)
	assert.Equal(t, ast.Pos{Line: 1, Column: 1}, entry.Position())

	want := &ast.Clause{Literals: []ast.Literal{
		ast.NegLit(ast.Pred("p", ast.Fn("f", ast.Var("X"), ast.Fn("g", ast.Var("Y"), ast.Var("Z"))))),
		ast.PosLit(ast.Eq(ast.Var("X"), ast.Var("Y"))),
		ast.PosLit(&ast.Atom{Token: "$false"}),
	}}
	assert.Equal(t, want, entry.Clause)
}

func TestParse_Include(t *testing.T) {
	doc := parse(t, `
% Axioms first
include('Axioms/SET001-0.ax').
include('Axioms/GRP004-0.ax', [left_identity, 'right inverse']).
cnf(goal, negated_conjecture, ~ q).
`)
	require.Len(t, doc.Entries, 3)

	inc := doc.Includes()
	require.Len(t, inc, 2)
	assert.Equal(t, "Axioms/SET001-0.ax", inc[0].Path)
	assert.Nil(t, inc[0].Selection)
	assert.Equal(t, "Axioms/GRP004-0.ax", inc[1].Path)
	assert.Equal(t, []string{"left_identity", "'right inverse'"}, inc[1].Selection)
	assert.Equal(t, 4, inc[1].Line)

	clauses := doc.Clauses()
	require.Len(t, clauses, 1)
	assert.Equal(t, []ast.Literal{ast.NegLit(ast.Pred("q"))}, clauses[0].Clause.Literals)
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []ast.Literal
	}{
		{
			name: "parenthesized disjunction",
			src:  "cnf(c, axiom, (p(X) | ~ q(X))).",
			want: []ast.Literal{
				ast.PosLit(ast.Pred("p", ast.Var("X"))),
				ast.NegLit(ast.Pred("q", ast.Var("X"))),
			},
		},
		{
			name: "disequality",
			src:  "cnf(c, axiom, a != b).",
			want: []ast.Literal{ast.PosLit(ast.Neq(ast.Fn("a"), ast.Fn("b")))},
		},
		{
			name: "negated equality",
			src:  "cnf(c, axiom, ~ f(X) = X).",
			want: []ast.Literal{ast.NegLit(ast.Eq(ast.Fn("f", ast.Var("X")), ast.Var("X")))},
		},
		{
			name: "quoted functor that needs no quotes",
			src:  "cnf(c, axiom, 'p'('a')).",
			want: []ast.Literal{ast.PosLit(ast.Pred("p", ast.Fn("a")))},
		},
		{
			name: "quoted functor kept verbatim",
			src:  "cnf(c, axiom, 'Big p'(X)).",
			want: []ast.Literal{ast.PosLit(ast.Pred("'Big p'", ast.Var("X")))},
		},
		{
			name: "numbers and distinct objects",
			src:  `cnf(c, axiom, "Apple" = 12 | X = -3.5).`,
			want: []ast.Literal{
				ast.PosLit(ast.Eq(ast.Fn(`"Apple"`), ast.Fn("12"))),
				ast.PosLit(ast.Eq(ast.Var("X"), ast.Fn("-3.5"))),
			},
		},
		{
			name: "defined functor with arguments",
			src:  "cnf(c, axiom, $less(X, 1)).",
			want: []ast.Literal{ast.PosLit(ast.Pred("$less", ast.Var("X"), ast.Fn("1")))},
		},
		{
			name: "annotations are skipped",
			src:  "cnf(c, axiom, p(X), inference(resolution, [status(thm)], [a, b]), [useful(1)]).",
			want: []ast.Literal{ast.PosLit(ast.Pred("p", ast.Var("X")))},
		},
		{
			name: "block comment",
			src:  "/* header\n spanning lines */ cnf(c, axiom, $true).",
			want: []ast.Literal{ast.PosLit(&ast.Atom{Token: "$true"})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.src)
			clauses := doc.Clauses()
			require.Len(t, clauses, 1)
			assert.Equal(t, tt.want, clauses[0].Clause.Literals)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	doc := parse(t, "% nothing but a comment\n")
	assert.Empty(t, doc.Entries)
	assert.Equal(t, "test.p", doc.Name)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		column  int
		message string
	}{
		{"missing dot", "cnf(c, axiom, p)", 1, 17, "expected '.', got 'end of input'"},
		{"fof rejected", "\nfof(c, axiom, p => q).", 2, 1, `unsupported formula language "fof", only cnf is accepted`},
		{"variable as literal", "cnf(c, axiom, X).", 1, 15, "term X used as a literal, expected '=' or '!='"},
		{"illegal character", "cnf(c, axiom, p(#)).", 1, 17, "expected term, got '#'"},
		{"unterminated quote", "include('Axioms).", 1, 9, `illegal token "'Axioms)."`},
		{"junk at top level", "hello.", 1, 1, "expected cnf or include, got 'hello'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse("bad.p", []byte(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrSyntax))

			var syn *domain.SyntaxError
			require.ErrorAs(t, err, &syn)
			assert.Equal(t, "bad.p", syn.File)
			assert.Equal(t, tt.line, syn.Line)
			assert.Equal(t, tt.column, syn.Column)
			assert.Equal(t, tt.message, syn.Msg)
		})
	}
}
