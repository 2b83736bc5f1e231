package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/cnftree/internal/logging"
	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/aretw0/cnftree/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// ErrSkipped marks problems that were never started because the batch stopped early.
var ErrSkipped = errors.New("skipped")

// Transformer turns one problem file into a tree. *cnftree.Converter implements it.
type Transformer interface {
	TransformFile(ctx context.Context, path string) (*domain.Node, error)
}

// Result is the outcome of one problem of the list.
type Result struct {
	Index int
	Path  string
	// Output is the written file. It is empty in stream mode.
	Output string
	Err    error
}

// Report holds one Result per listed problem, in list order.
type Report struct {
	Results []Result
}

// Failed returns the results that carry an error, skipped ones included.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Succeeded counts the problems that were converted and written.
func (r *Report) Succeeded() int {
	return len(r.Results) - len(r.Failed())
}

// Runner converts problem lists with bounded parallelism.
type Runner struct {
	conv      Transformer
	workers   int
	format    codec.Format
	compress  bool
	keepGoing bool
	progress  func(Result)
	logger    *slog.Logger
}

// New creates a Runner over conv.
func New(conv Transformer, opts ...Option) *Runner {
	r := &Runner{
		conv:    conv,
		workers: DefaultWorkers,
		format:  codec.FormatProto,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WriteDir writes the tree of paths[i] to dir/OutputName(i, ...), creating dir
// if needed.
func (r *Runner) WriteDir(ctx context.Context, paths []string, dir string) (*Report, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return r.run(ctx, paths, func(i int, tree *domain.Node) (string, error) {
		data, err := codec.Marshal(r.format, tree)
		if err != nil {
			return "", err
		}
		if r.compress {
			data = codec.Compress(data)
		}
		out := filepath.Join(dir, OutputName(i, r.format, r.compress))
		if err := os.WriteFile(out, data, 0644); err != nil {
			return "", fmt.Errorf("write output: %w", err)
		}
		return out, nil
	})
}

// WriteStream writes every converted tree to w as one framed batch, in list
// order. Failed problems are left out when the runner keeps going.
func (r *Runner) WriteStream(ctx context.Context, paths []string, w io.Writer) (*Report, error) {
	trees := make([]*domain.Node, len(paths))
	report, err := r.run(ctx, paths, func(i int, tree *domain.Node) (string, error) {
		trees[i] = tree
		return "", nil
	})
	if err != nil {
		return report, err
	}

	var closer io.Closer
	if r.compress {
		zw, err := codec.NewCompressWriter(w)
		if err != nil {
			return report, err
		}
		w, closer = zw, zw
	}
	enc, err := codec.NewEncoder(r.format, w)
	if err != nil {
		return report, err
	}
	for _, tree := range trees {
		if tree == nil {
			continue
		}
		if err := enc.Encode(tree); err != nil {
			return report, fmt.Errorf("write batch: %w", err)
		}
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return report, fmt.Errorf("write batch: %w", err)
		}
	}
	return report, nil
}

func (r *Runner) run(ctx context.Context, paths []string, sink func(int, *domain.Node) (string, error)) (*Report, error) {
	report := &Report{Results: make([]Result, len(paths))}
	for i, p := range paths {
		report.Results[i] = Result{Index: i, Path: p, Err: ErrSkipped}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, p := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := Result{Index: i, Path: p}
			tree, err := r.conv.TransformFile(gctx, p)
			if err == nil {
				res.Output, err = sink(i, tree)
			}
			res.Err = err
			report.Results[i] = res
			if r.progress != nil {
				r.progress(res)
			}

			if err == nil {
				r.logger.DebugContext(gctx, "problem converted", "index", i, "path", p)
				return nil
			}
			if r.keepGoing {
				r.logger.WarnContext(gctx, "problem failed", "index", i, "path", p, "kind", domain.Kind(err), "error", err)
				return nil
			}
			return fmt.Errorf("problem %d (%s): %w", i, p, err)
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}
