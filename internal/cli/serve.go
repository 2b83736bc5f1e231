package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/aretw0/cnftree"
	httpadapter "github.com/aretw0/cnftree/pkg/adapters/http"
	mcpadapter "github.com/aretw0/cnftree/pkg/adapters/mcp"
)

// NewHTTPServer configures the service from the server section.
func NewHTTPServer(app *App) *httpadapter.Server {
	cfg := app.Config.Server
	opts := []httpadapter.ServerOption{
		httpadapter.WithRoot(app.Config.BaseDir),
		httpadapter.WithVersion(cnftree.Version),
		httpadapter.WithLogger(app.Logger),
		httpadapter.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		httpadapter.WithMaxBodyBytes(cfg.MaxBodyBytes),
		httpadapter.WithRequestValidation(cfg.ValidateRequests),
	}
	if cfg.Metrics {
		opts = append(opts, httpadapter.WithMetricsHandler(app.Metrics.Handler()))
	}
	return httpadapter.NewServer(app.Converter, opts...)
}

// RunServe serves the transformation over HTTP until ctx is cancelled.
// ready, if not nil, receives the bound address.
func RunServe(ctx context.Context, app *App, out io.Writer, ready func(net.Addr)) error {
	handler, err := NewHTTPServer(app).Handler(ctx)
	if err != nil {
		return err
	}

	cfg := app.Config.Server
	return httpadapter.ListenAndServe(ctx, httpadapter.ServeConfig{
		Addr:            cfg.Addr,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, handler, app.Logger, func(addr net.Addr) {
		printSystemMessage(out, "Serving %s on http://%s", app.Config.BaseDir, addr)
		if ready != nil {
			ready(addr)
		}
	})
}

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// MCPOptions configures RunMCP.
type MCPOptions struct {
	// Transport is stdio (default) or http.
	Transport string
	// Addr is the listen address of the http transport. Empty uses the
	// server section.
	Addr string
}

// RunMCP serves the MCP tools until ctx is done. The stdio transport also
// stops when in closes; the http transport mounts the tools at /mcp.
func RunMCP(ctx context.Context, app *App, opts MCPOptions, in io.Reader, out io.Writer, ready func(net.Addr)) error {
	srv := mcpadapter.NewServer(app.Converter, cnftree.Version, app.Logger)

	switch firstNonEmpty(opts.Transport, TransportStdio) {
	case TransportStdio:
		app.Logger.Info("mcp server starting", "transport", TransportStdio, "base_dir", app.Config.BaseDir)
		return srv.ServeStdio(ctx, in, out)
	case TransportHTTP:
		mux := http.NewServeMux()
		mux.Handle("/mcp", srv.HTTPHandler())
		cfg := app.Config.Server
		return httpadapter.ListenAndServe(ctx, httpadapter.ServeConfig{
			Addr:            firstNonEmpty(opts.Addr, cfg.Addr),
			ReadTimeout:     cfg.ReadTimeout,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}, mux, app.Logger, ready)
	}
	return fmt.Errorf("unknown transport %q (want stdio or http)", opts.Transport)
}
