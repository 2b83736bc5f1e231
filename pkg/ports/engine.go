package ports

import (
	"github.com/aretw0/cnftree/pkg/ast"
)

// DocumentParser turns raw TPTP text into an AST.
// name identifies the source in error messages.
type DocumentParser interface {
	Parse(name string, data []byte) (*ast.Document, error)
}

// ParserFunc adapts a function to DocumentParser.
type ParserFunc func(name string, data []byte) (*ast.Document, error)

// Parse calls f(name, data).
func (f ParserFunc) Parse(name string, data []byte) (*ast.Document, error) {
	return f(name, data)
}
