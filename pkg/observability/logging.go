package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/cnftree/pkg/domain"
)

// LoggingHooks logs document completion at info level (error level on
// failure) and each include at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDocumentDone: func(ctx context.Context, e *domain.DocumentEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "document_failed",
					"document", e.Document,
					"kind", domain.Kind(e.Err),
					"duration", e.Duration,
					"error", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "document_done",
				"document", e.Document,
				"clauses", e.Clauses,
				"symbols", e.Symbols,
				"duration", e.Duration,
			)
		},
		OnInclude: func(ctx context.Context, e *domain.IncludeEvent) {
			if e.Err != nil {
				logger.DebugContext(ctx, "include_failed", "path", e.Path, "depth", e.Depth, "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "include", "path", e.Path, "depth", e.Depth)
		},
	}
}
