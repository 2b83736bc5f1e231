package runtime

import (
	"fmt"

	"github.com/aretw0/cnftree/pkg/ast"
)

// shapeError reports an AST shape the grammar should never have produced.
// The document layer turns it into a positioned domain.SyntaxError.
type shapeError struct {
	msg string
}

func (e *shapeError) Error() string { return e.msg }

func malformed(format string, args ...any) error {
	return &shapeError{msg: fmt.Sprintf(format, args...)}
}

func transformTerm(t ast.Term) (accumulator, error) {
	switch t := t.(type) {
	case *ast.Variable:
		if t.Name == "" {
			return accumulator{}, malformed("variable without a name")
		}
		return variable(t.Name), nil
	case *ast.Function:
		if t.Name == "" {
			return accumulator{}, malformed("function without a name")
		}
		args, err := transformTerms(t.Args)
		if err != nil {
			return accumulator{}, err
		}
		return symbol(t.Name, args...), nil
	case nil:
		return accumulator{}, malformed("missing term")
	default:
		return accumulator{}, malformed("unsupported term %T", t)
	}
}

func transformTerms(terms []ast.Term) ([]accumulator, error) {
	out := make([]accumulator, 0, len(terms))
	for _, t := range terms {
		acc, err := transformTerm(t)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, nil
}

func transformPredicate(p ast.Predicate) (accumulator, error) {
	switch p := p.(type) {
	case *ast.Equality:
		if p.Symbol == "" {
			return accumulator{}, malformed("equality without a symbol")
		}
		if p.Left == nil || p.Right == nil {
			return accumulator{}, malformed("equality %q is missing a side", p.Symbol)
		}
		sides, err := transformTerms([]ast.Term{p.Left, p.Right})
		if err != nil {
			return accumulator{}, err
		}
		// The equality symbol is builtin, not a user symbol.
		return compose(p.Symbol, sides...), nil
	case *ast.Application:
		if p.Name == "" {
			return accumulator{}, malformed("predicate without a name")
		}
		args, err := transformTerms(p.Args)
		if err != nil {
			return accumulator{}, err
		}
		return symbol(p.Name, args...), nil
	case *ast.Atom:
		if p.Token == "" {
			return accumulator{}, malformed("empty atomic formula")
		}
		return atom(p.Token), nil
	case nil:
		return accumulator{}, malformed("missing predicate")
	default:
		return accumulator{}, malformed("unsupported predicate %T", p)
	}
}
