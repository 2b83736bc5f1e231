package runtime

import (
	"github.com/aretw0/cnftree/pkg/ast"
	"github.com/aretw0/cnftree/pkg/domain"
)

// transformClause builds (! V1 .. Vn (| lit ...)). The variables are bound
// here, so the result carries symbols only.
func transformClause(c *ast.Clause) (accumulator, error) {
	if c == nil {
		return accumulator{}, malformed("clause entry without a formula")
	}
	literals := make([]accumulator, 0, len(c.Literals))
	for i, lit := range c.Literals {
		acc, err := transformPredicate(lit.Predicate)
		if err != nil {
			return accumulator{}, malformed("literal %d: %v", i+1, err)
		}
		if lit.Negated {
			acc = compose(domain.Not, acc)
		}
		literals = append(literals, acc)
	}

	disjunction := compose(domain.Or, literals...)
	return accumulator{
		node:    quantify(domain.ForAll, disjunction.variables, disjunction.node),
		symbols: disjunction.symbols,
	}, nil
}
