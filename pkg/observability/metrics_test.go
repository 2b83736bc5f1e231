package observability

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnDocumentDone(ctx, &domain.DocumentEvent{Duration: 3 * time.Millisecond})
	hooks.OnDocumentDone(ctx, &domain.DocumentEvent{Err: &domain.SyntaxError{Msg: "bad"}})
	hooks.OnDocumentDone(ctx, &domain.DocumentEvent{Err: errors.New("boom")})
	hooks.OnInclude(ctx, &domain.IncludeEvent{Path: "A.ax", Depth: 1})
	hooks.OnInclude(ctx, &domain.IncludeEvent{Path: "B.ax", Depth: 2})
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("syntax")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("internal")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.includes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cache.WithLabelValues("miss")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.Hooks().OnInclude(context.Background(), &domain.IncludeEvent{})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "cnftree_includes_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := LoggingHooks(logger)
	ctx := context.Background()

	hooks.OnDocumentDone(ctx, &domain.DocumentEvent{Document: "main.p", Clauses: 2, Symbols: 3})
	hooks.OnDocumentDone(ctx, &domain.DocumentEvent{Document: "bad.p", Err: &domain.IOError{Path: "x", Err: errors.New("denied")}})
	hooks.OnInclude(ctx, &domain.IncludeEvent{Path: "A.ax", Depth: 1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "msg=document_done")
	assert.Contains(t, lines[0], "clauses=2")
	assert.Contains(t, lines[1], "level=ERROR")
	assert.Contains(t, lines[1], "kind=io")
	assert.Contains(t, lines[2], "path=A.ax")
}
