package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aretw0/cnftree/internal/logging"
	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// DefaultMaxBodyBytes bounds the size of a transform request.
const DefaultMaxBodyBytes = 4 << 20

// DefaultDocumentName names request documents in error positions.
const DefaultDocumentName = "request.p"

// Transformer is the part of *cnftree.Converter the service needs.
type Transformer interface {
	TransformTextAt(ctx context.Context, baseDir, name string, text []byte) (*domain.Node, error)
}

// TransformRequest is the body of POST /v1/transform.
type TransformRequest struct {
	Text    string `json:"text"`
	BaseDir string `json:"base_dir,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Health is the body of GET /health.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Server serves transformations over HTTP.
type Server struct {
	conv     Transformer
	root     string
	version  string
	logger   *slog.Logger
	metrics  http.Handler
	limiter  *rate.Limiter
	maxBody  int64
	validate bool
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRoot sets the directory that request base directories are resolved
// under (default ".").
func WithRoot(dir string) ServerOption {
	return func(s *Server) {
		s.root = dir
	}
}

// WithVersion is reported by /health.
func WithVersion(v string) ServerOption {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger sets the logger used for access and error logs.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithRateLimit admits rps requests per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithRequestValidation checks requests against the OpenAPI document before
// they reach the handlers.
func WithRequestValidation(enabled bool) ServerOption {
	return func(s *Server) {
		s.validate = enabled
	}
}

// NewServer creates a Server around conv.
func NewServer(conv Transformer, opts ...ServerOption) *Server {
	s := &Server{
		conv:    conv,
		root:    ".",
		logger:  logging.NewNop(),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler builds the router. It fails only if request validation is
// enabled and the embedded OpenAPI document cannot be loaded.
func NewHandler(conv Transformer, opts ...ServerOption) (http.Handler, error) {
	return NewServer(conv, opts...).Handler(context.Background())
}

// Handler builds the router for s.
func (s *Server) Handler(ctx context.Context) (http.Handler, error) {
	var validator func(http.Handler) http.Handler
	if s.validate {
		doc, err := LoadSpec(ctx)
		if err != nil {
			return nil, err
		}
		if validator, err = requestValidator(doc, s); err != nil {
			return nil, err
		}
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(rateLimit(s.limiter, s))
		}
		r.Use(maxBytes(s.maxBody))
		if validator != nil {
			r.Use(validator)
		}
		r.Post("/v1/transform", s.handleTransform)
	})

	return r, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, Health{Status: "ok", Version: s.version}); err != nil {
		s.logger.ErrorContext(r.Context(), "health response encode failed", "error", err)
	}
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, invalidRequest("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, http.StatusBadRequest, invalidRequest("invalid request body: %v", err))
		return
	}

	baseDir, err := s.resolveBaseDir(req.BaseDir)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, invalidRequest("%v", err))
		return
	}
	name := req.Name
	if name == "" {
		name = DefaultDocumentName
	}

	tree, err := s.conv.TransformTextAt(r.Context(), baseDir, name, []byte(req.Text))
	if err != nil {
		re := domain.NewRemoteError(err)
		re.Message = s.redact(re.Message)
		s.writeError(w, r, StatusFor(err), re)
		return
	}

	format := negotiate(r.Header.Get("Accept"))
	data, err := codec.Marshal(format, tree)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, &domain.RemoteError{Kind: domain.KindInternal, Message: err.Error()})
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) resolveBaseDir(dir string) (string, error) {
	if dir == "" || dir == "." {
		return s.root, nil
	}
	if !filepath.IsLocal(dir) {
		return "", errors.New("base_dir must be a relative path inside the server root")
	}
	return filepath.Join(s.root, dir), nil
}

// redact strips the server root from messages sent to clients.
func (s *Server) redact(msg string) string {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return msg
	}
	return strings.ReplaceAll(msg, root+string(filepath.Separator), "")
}

// negotiate picks the response encoding from an Accept header. JSON wins
// unless protobuf or plain text is asked for explicitly.
func negotiate(accept string) codec.Format {
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case "application/json", "*/*", "application/*":
			return codec.FormatJSON
		case "application/x-protobuf", "application/protobuf":
			return codec.FormatProto
		case "text/plain":
			return codec.FormatSExpr
		}
	}
	return codec.FormatJSON
}
