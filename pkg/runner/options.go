package runner

import (
	"log/slog"

	"github.com/aretw0/cnftree/pkg/codec"
)

// DefaultWorkers is the number of files transformed concurrently by default.
const DefaultWorkers = 4

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithWorkers bounds the number of files transformed at once. Values below
// one fall back to DefaultWorkers.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithFormat selects the output encoding (default codec.FormatProto).
func WithFormat(f codec.Format) Option {
	return func(r *Runner) {
		r.format = f
	}
}

// WithCompression zstd-compresses every output.
func WithCompression(enabled bool) Option {
	return func(r *Runner) {
		r.compress = enabled
	}
}

// WithKeepGoing records failures instead of aborting the batch.
func WithKeepGoing(enabled bool) Option {
	return func(r *Runner) {
		r.keepGoing = enabled
	}
}

// WithProgress is called once per finished file, successful or not.
// It may be called from several goroutines.
func WithProgress(fn func(Result)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
