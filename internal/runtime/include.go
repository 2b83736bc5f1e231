package runtime

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/cnftree/pkg/ast"
	"github.com/aretw0/cnftree/pkg/domain"
)

// splice is what an include contributes to the including document.
type splice struct {
	clauses []*domain.Node
	symbols nameSet
}

// resolveInclude loads, parses and transforms the included file, then strips
// its ? wrapper so the caller folds everything into a single marker.
func (e *Engine) resolveInclude(ctx context.Context, parent *ast.Document, inc *ast.IncludeEntry, sc scope) (sp splice, err error) {
	depth := sc.depth() + 1
	resolved := inc.Path
	defer func() {
		if e.hooks.OnInclude != nil {
			e.hooks.OnInclude(ctx, &domain.IncludeEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventInclude},
				Path:      resolved,
				Depth:     depth,
				Err:       err,
			})
		}
	}()

	if e.loader == nil || e.parser == nil {
		return splice{}, includeError(parent, inc, &domain.IOError{Path: inc.Path, Err: fmt.Errorf("includes are not supported without a source loader")})
	}

	e.logger.DebugContext(ctx, "resolving include", "path", inc.Path, "base_dir", sc.baseDir, "depth", depth)
	src, err := e.loader.Load(ctx, sc.baseDir, inc.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return splice{}, ctxErr
		}
		return splice{}, includeError(parent, inc, &domain.IOError{Path: inc.Path, Err: err})
	}
	resolved = src.Path

	if i := slices.Index(sc.chain, src.Path); i >= 0 {
		chain := append(slices.Clone(sc.chain[i:]), src.Path)
		return splice{}, &domain.CyclicIncludeError{Chain: chain}
	}

	doc, err := e.parser.Parse(src.Path, src.Content)
	if err != nil {
		return splice{}, includeError(parent, inc, err)
	}

	tree, err := e.transformDocument(ctx, doc, sc.enter(src.Path, inc.Selection))
	if err != nil {
		if _, ok := err.(*domain.CyclicIncludeError); ok {
			return splice{}, err
		}
		return splice{}, includeError(parent, inc, err)
	}

	e.logger.DebugContext(ctx, "include resolved", "path", src.Path, "clauses", len(tree.Body().Children))
	return splice{
		clauses: tree.Body().Children,
		symbols: newNameSet(tree.Bound()...),
	}, nil
}

func includeError(parent *ast.Document, inc *ast.IncludeEntry, err error) error {
	if parent.Name == "" {
		return fmt.Errorf("include %q: %w", inc.Path, err)
	}
	return fmt.Errorf("%s:%d: include %q: %w", parent.Name, inc.Line, inc.Path, err)
}
