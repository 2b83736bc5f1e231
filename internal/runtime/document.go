package runtime

import (
	"context"
	"errors"
	"slices"

	"github.com/aretw0/cnftree/pkg/ast"
	"github.com/aretw0/cnftree/pkg/domain"
)

// scope is the state one include level hands to the next.
type scope struct {
	baseDir string
	// chain holds the resolved paths of the documents being transformed,
	// outermost first.
	chain []string
	// filters are the selection lists of the enclosing includes. A clause is
	// kept only if every non-nil filter names it. A nil filter selects all.
	filters []map[string]struct{}
}

func (s scope) depth() int { return len(s.filters) }

func (s scope) selects(name string) bool {
	for _, f := range s.filters {
		if f == nil {
			continue
		}
		if _, ok := f[name]; !ok {
			return false
		}
	}
	return true
}

func (s scope) enter(path string, selection []string) scope {
	next := scope{
		baseDir: s.baseDir,
		chain:   append(slices.Clip(s.chain), path),
		filters: slices.Clip(s.filters),
	}
	var filter map[string]struct{}
	if selection != nil {
		filter = make(map[string]struct{}, len(selection))
		for _, n := range selection {
			filter[n] = struct{}{}
		}
	}
	// A nil filter still counts as a level so depth stays accurate.
	next.filters = append(next.filters, filter)
	return next
}

// transformDocument builds the ? marker over the & of every selected clause,
// splicing includes in place.
func (e *Engine) transformDocument(ctx context.Context, doc *ast.Document, sc scope) (*domain.Node, error) {
	var (
		clauses []*domain.Node
		symbols nameSet
	)
	for i, entry := range doc.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch en := entry.(type) {
		case *ast.ClauseEntry:
			if !sc.selects(en.Name) {
				continue
			}
			acc, err := transformClause(en.Clause)
			if err != nil {
				return nil, entryError(doc, i, en.Name, en.Pos, err)
			}
			clauses = append(clauses, acc.node)
			symbols = symbols.union(acc.symbols)
		case *ast.IncludeEntry:
			sp, err := e.resolveInclude(ctx, doc, en, sc)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, sp.clauses...)
			symbols = symbols.union(sp.symbols)
		case nil:
			return nil, entryError(doc, i, "", ast.Pos{}, malformed("missing entry"))
		default:
			return nil, entryError(doc, i, "", entry.Position(), malformed("unsupported entry %T", entry))
		}
	}
	return quantify(domain.Exists, symbols, &domain.Node{Label: domain.And, Children: clauses}), nil
}

// entryError positions a shape error on the offending entry.
func entryError(doc *ast.Document, index int, name string, pos ast.Pos, err error) error {
	var se *shapeError
	if !errors.As(err, &se) {
		return err
	}
	return &domain.SyntaxError{
		File:   doc.Name,
		Entry:  name,
		Index:  index + 1,
		Line:   pos.Line,
		Column: pos.Column,
		Msg:    se.msg,
	}
}
