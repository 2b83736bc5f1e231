package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/cnftree/internal/logging"
	"github.com/aretw0/cnftree/pkg/ast"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/aretw0/cnftree/pkg/ports"
)

// Engine turns parsed CNF documents into labeled trees.
// It holds only immutable collaborators and is safe for concurrent use.
type Engine struct {
	loader ports.SourceLoader
	parser ports.DocumentParser
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets the structured logger. Include resolution logs at debug level.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine that reads includes through loader and parses
// them with parser.
func NewEngine(loader ports.SourceLoader, parser ports.DocumentParser, opts ...EngineOption) *Engine {
	e := &Engine{
		loader: loader,
		parser: parser,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TransformDocument converts doc into (? S1 .. Sn (& clause ...)).
// Includes are resolved against baseDir, which stays the same for nested
// includes. On error no tree is returned.
func (e *Engine) TransformDocument(ctx context.Context, doc *ast.Document, baseDir string) (*domain.Node, error) {
	start := time.Now()
	name := ""
	if doc != nil {
		name = doc.Name
	}
	if e.hooks.OnDocumentStart != nil {
		e.hooks.OnDocumentStart(ctx, &domain.DocumentEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventDocumentStart},
			Document:  name,
		})
	}

	tree, err := e.transformRoot(ctx, doc, baseDir)

	if e.hooks.OnDocumentDone != nil {
		evt := &domain.DocumentEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDocumentDone},
			Document:  name,
			Duration:  time.Since(start),
			Err:       err,
		}
		if tree != nil {
			evt.Symbols = len(tree.Children) - 1
			evt.Clauses = len(tree.Body().Children)
		}
		e.hooks.OnDocumentDone(ctx, evt)
	}
	return tree, err
}

func (e *Engine) transformRoot(ctx context.Context, doc *ast.Document, baseDir string) (*domain.Node, error) {
	if doc == nil {
		return nil, &domain.SyntaxError{Msg: "missing document"}
	}
	root := scope{baseDir: baseDir}
	if doc.Name != "" {
		root.chain = []string{e.rootPath(doc.Name, baseDir)}
	}
	return e.transformDocument(ctx, doc, root)
}

// rootPath spells the root document the way the loader reports includes, so
// a root that includes itself closes the cycle at the first level.
func (e *Engine) rootPath(name, baseDir string) string {
	r, ok := e.loader.(ports.PathResolver)
	if !ok {
		return name
	}
	p, err := r.Resolve(baseDir, name)
	if err != nil {
		return name
	}
	return p
}
