package cnftree

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/aretw0/cnftree/internal/compiler"
	"github.com/aretw0/cnftree/internal/logging"
	"github.com/aretw0/cnftree/internal/runtime"
	"github.com/aretw0/cnftree/pkg/adapters/file"
	"github.com/aretw0/cnftree/pkg/ast"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/aretw0/cnftree/pkg/ports"
	"golang.org/x/sync/singleflight"
)

// Converter is the high-level entry point for the cnftree library.
// It wraps the internal runtime with parsing, include loading and an
// optional tree cache. A Converter is safe for concurrent use.
type Converter struct {
	runtime      *runtime.Engine
	parser       *compiler.Parser
	loader       ports.SourceLoader
	cache        ports.TreeStore
	observeCache func(hit bool)
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	baseDir      string
	flights      singleflight.Group
}

// Option defines a functional option for configuring the Converter.
type Option func(*Converter)

// WithBaseDir sets the TPTP root that include paths are resolved against (default ".").
func WithBaseDir(dir string) Option {
	return func(c *Converter) {
		c.baseDir = dir
	}
}

// WithLoader injects a custom SourceLoader, bypassing the filesystem.
func WithLoader(l ports.SourceLoader) Option {
	return func(c *Converter) {
		c.loader = l
	}
}

// WithCache caches transformed trees by content. The cache assumes the
// include tree under the base directory does not change.
func WithCache(store ports.TreeStore) Option {
	return func(c *Converter) {
		c.cache = store
	}
}

// WithCacheObserver is called after every cache lookup.
func WithCacheObserver(fn func(hit bool)) Option {
	return func(c *Converter) {
		c.observeCache = fn
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Converter) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// New creates a Converter. Without options it reads includes from the
// filesystem relative to the current directory and caches nothing.
func New(opts ...Option) *Converter {
	c := &Converter{
		parser:  compiler.NewParser(),
		baseDir: ".",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loader == nil {
		c.loader = file.NewLoader()
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	c.runtime = runtime.NewEngine(c.loader, c.parser,
		runtime.WithHooks(c.hooks),
		runtime.WithLogger(c.logger),
	)
	return c
}

// BaseDir returns the configured include root.
func (c *Converter) BaseDir() string {
	return c.baseDir
}

// Parse parses TPTP CNF text. name is used in error positions.
func (c *Converter) Parse(name string, text []byte) (*ast.Document, error) {
	return c.parser.Parse(name, text)
}

// TransformDocument transforms an already parsed document. It bypasses the cache.
func (c *Converter) TransformDocument(ctx context.Context, doc *ast.Document, baseDir string) (*domain.Node, error) {
	return c.runtime.TransformDocument(ctx, doc, baseDir)
}

// TransformText parses and transforms text, resolving includes against the
// configured base directory.
func (c *Converter) TransformText(ctx context.Context, name string, text []byte) (*domain.Node, error) {
	return c.TransformTextAt(ctx, c.baseDir, name, text)
}

// TransformTextAt is TransformText with an explicit base directory.
func (c *Converter) TransformTextAt(ctx context.Context, baseDir, name string, text []byte) (*domain.Node, error) {
	return c.transform(ctx, baseDir, text, func() (*ast.Document, error) {
		return c.parser.Parse(name, text)
	})
}

// TransformFile reads and transforms the problem file at path (relative to the
// working directory, not the base directory).
func (c *Converter) TransformFile(ctx context.Context, path string) (*domain.Node, error) {
	src, err := c.loader.Load(ctx, "", path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.IOError{Path: path, Err: err}
	}
	return c.transform(ctx, c.baseDir, src.Content, func() (*ast.Document, error) {
		return c.parser.Parse(src.Path, src.Content)
	})
}

func (c *Converter) transform(ctx context.Context, baseDir string, text []byte, parse func() (*ast.Document, error)) (*domain.Node, error) {
	run := func(ctx context.Context) (*domain.Node, error) {
		doc, err := parse()
		if err != nil {
			return nil, err
		}
		return c.runtime.TransformDocument(ctx, doc, baseDir)
	}
	if c.cache == nil {
		return run(ctx)
	}

	key := CacheKey(baseDir, text)
	tree, err := c.cache.Load(ctx, key)
	switch {
	case err == nil:
		c.observe(true)
		return tree, nil
	case !errors.Is(err, domain.ErrTreeNotFound):
		c.logger.WarnContext(ctx, "cache lookup failed", "key", key, "error", err)
	}
	c.observe(false)

	// Identical concurrent requests share one transformation. The shared work
	// outlives any single caller; each caller stops waiting on its own ctx.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(key, func() (any, error) {
		tree, err := run(flightCtx)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Save(flightCtx, key, tree); err != nil {
			c.logger.WarnContext(flightCtx, "cache store failed", "key", key, "error", err)
		}
		return tree, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	tree = res.Val.(*domain.Node)
	if res.Shared {
		tree = tree.Clone()
	}
	return tree, nil
}

func (c *Converter) observe(hit bool) {
	if c.observeCache != nil {
		c.observeCache(hit)
	}
}

// CacheKey derives the cache key of a document from its text and base directory.
func CacheKey(baseDir string, text []byte) string {
	h := sha256.New()
	h.Write([]byte(baseDir))
	h.Write([]byte{0})
	h.Write(text)
	return hex.EncodeToString(h.Sum(nil))
}
