package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/cnftree"
	"github.com/aretw0/cnftree/internal/logging"
	httpadapter "github.com/aretw0/cnftree/pkg/adapters/http"
	"github.com/aretw0/cnftree/pkg/adapters/memory"
	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/aretw0/cnftree/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleCNF = "cnf(test, axiom, ~ p(f(X, g(Y, Z))) | X = Y | $false)."
const exampleTree = "(? p f g (& (! X Y Z (| (~ (p (f X (g Y Z)))) (= X Y) $false))))"

func newHandler(t *testing.T, opts ...httpadapter.ServerOption) http.Handler {
	t.Helper()
	conv := cnftree.New(cnftree.WithLoader(memory.NewLoader(map[string]string{
		"Axioms/A.ax":     "cnf(a, axiom, q(a)).",
		"sub/Axioms/B.ax": "cnf(b, axiom, r(b)).",
		"Axioms/L1.ax":    "include('Axioms/L2.ax').",
		"Axioms/L2.ax":    "include('Axioms/L1.ax').",
	})))
	h, err := httpadapter.NewHandler(conv, opts...)
	require.NoError(t, err)
	return h
}

func post(t *testing.T, h http.Handler, body, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/transform", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func requestBody(t *testing.T, req httpadapter.TransformRequest) string {
	t.Helper()
	b, err := json.Marshal(req)
	require.NoError(t, err)
	return string(b)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *domain.RemoteError {
	t.Helper()
	var resp httpadapter.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestTransform_JSON(t *testing.T) {
	h := newHandler(t)
	rr := post(t, h, requestBody(t, httpadapter.TransformRequest{Text: exampleCNF}), "")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	tree, err := codec.UnmarshalJSON(rr.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, exampleTree, tree.String())
	assert.NotEmpty(t, rr.Header().Get(httpadapter.RequestIDHeader))
}

func TestTransform_Negotiation(t *testing.T) {
	h := newHandler(t)
	body := requestBody(t, httpadapter.TransformRequest{Text: exampleCNF})

	rr := post(t, h, body, "application/x-protobuf")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/x-protobuf", rr.Header().Get("Content-Type"))
	tree, err := codec.UnmarshalProto(rr.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, exampleTree, tree.String())

	rr = post(t, h, body, "text/plain")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, exampleTree, rr.Body.String())
}

func TestTransform_Includes(t *testing.T) {
	h := newHandler(t)

	rr := post(t, h, requestBody(t, httpadapter.TransformRequest{Text: "include('Axioms/A.ax')."}), "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	tree, err := codec.UnmarshalJSON(rr.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "(? q a (& (! (| (q a)))))", tree.String())

	rr = post(t, h, requestBody(t, httpadapter.TransformRequest{Text: "include('Axioms/B.ax').", BaseDir: "sub"}), "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	tree, err = codec.UnmarshalJSON(rr.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "(? r b (& (! (| (r b)))))", tree.String())
}

func TestTransform_Errors(t *testing.T) {
	h := newHandler(t)
	tests := []struct {
		name   string
		body   string
		status int
		kind   domain.ErrorKind
	}{
		{"syntax", requestBody(t, httpadapter.TransformRequest{Text: "cnf(a, axiom, p"}), http.StatusUnprocessableEntity, domain.KindSyntax},
		{"missing include", requestBody(t, httpadapter.TransformRequest{Text: "include('nope.ax')."}), http.StatusNotFound, domain.KindIO},
		{"cycle", requestBody(t, httpadapter.TransformRequest{Text: "include('Axioms/L1.ax')."}), http.StatusUnprocessableEntity, domain.KindCyclicInclude},
		{"bad json", `{"text": `, http.StatusBadRequest, domain.KindInvalidRequest},
		{"unknown field", `{"txt": "cnf(a, axiom, p)."}`, http.StatusBadRequest, domain.KindInvalidRequest},
		{"escaping base dir", requestBody(t, httpadapter.TransformRequest{Text: "", BaseDir: "../etc"}), http.StatusBadRequest, domain.KindInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, h, tt.body, "")
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			re := decodeError(t, rr)
			assert.Equal(t, tt.kind, re.Kind)
			assert.NotEmpty(t, re.Message)
		})
	}
}

func TestTransform_SyntaxErrorPosition(t *testing.T) {
	h := newHandler(t)
	rr := post(t, h, requestBody(t, httpadapter.TransformRequest{Text: "cnf(a, axiom, p).\nfof(b, axiom, q).", Name: "mine.p"}), "")

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	re := decodeError(t, rr)
	assert.Equal(t, "mine.p", re.File)
	assert.Equal(t, 2, re.Line)
	assert.Equal(t, 1, re.Column)
}

func TestTransform_BodyLimit(t *testing.T) {
	h := newHandler(t, httpadapter.WithMaxBodyBytes(32))
	rr := post(t, h, requestBody(t, httpadapter.TransformRequest{Text: strings.Repeat("% comment\n", 10)}), "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestTransform_RateLimit(t *testing.T) {
	h := newHandler(t, httpadapter.WithRateLimit(0.001, 1))
	body := requestBody(t, httpadapter.TransformRequest{Text: exampleCNF})

	assert.Equal(t, http.StatusOK, post(t, h, body, "").Code)
	rr := post(t, h, body, "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}

func TestTransform_RequestValidation(t *testing.T) {
	h := newHandler(t, httpadapter.WithRequestValidation(true))

	rr := post(t, h, `{"base_dir": "sub"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, domain.KindInvalidRequest, decodeError(t, rr).Kind)

	rr = post(t, h, `{"text": 42}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = post(t, h, requestBody(t, httpadapter.TransformRequest{Text: exampleCNF}), "")
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestRequestID(t *testing.T) {
	h := newHandler(t)
	id := "7f1c9a8e-2b1d-4c3e-9f4a-0123456789ab"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(httpadapter.RequestIDHeader, id)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, id, rr.Header().Get(httpadapter.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(httpadapter.RequestIDHeader, "not a uuid")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.NotEqual(t, "not a uuid", rr.Header().Get(httpadapter.RequestIDHeader))
}

func TestHealthAndSpec(t *testing.T) {
	h := newHandler(t, httpadapter.WithVersion("1.2.3"))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var health httpadapter.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, httpadapter.Health{Status: "ok", Version: "1.2.3"}, health)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, httpadapter.Spec(), rr.Body.Bytes())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLoadSpec(t *testing.T) {
	doc, err := httpadapter.LoadSpec(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/v1/transform"))
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observability.NewMetrics()
	conv := cnftree.New(
		cnftree.WithLoader(memory.NewLoader(nil)),
		cnftree.WithLifecycleHooks(metrics.Hooks()),
	)
	h, err := httpadapter.NewHandler(conv, httpadapter.WithMetricsHandler(metrics.Handler()))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, post(t, h, requestBody(t, httpadapter.TransformRequest{Text: exampleCNF}), "").Code)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.Contains(t, string(body), `cnftree_documents_total{outcome="ok"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, httpadapter.StatusFor(&domain.SyntaxError{Msg: "x"}))
	assert.Equal(t, http.StatusUnprocessableEntity, httpadapter.StatusFor(&domain.CyclicIncludeError{Chain: []string{"a", "a"}}))
	assert.Equal(t, http.StatusNotFound, httpadapter.StatusFor(&domain.IOError{Path: "a", Err: fs.ErrNotExist}))
	assert.Equal(t, http.StatusInternalServerError, httpadapter.StatusFor(errors.New("boom")))
}

func TestListenAndServe(t *testing.T) {
	h := newHandler(t)
	ctx, cancel := context.WithCancel(context.Background())
	addrs := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- httpadapter.ListenAndServe(ctx, httpadapter.ServeConfig{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
			h, logging.NewNop(), func(a net.Addr) { addrs <- a })
	}()

	addr := <-addrs
	client := httpadapter.NewClient(addr.String())
	tree, err := client.Transform(context.Background(), exampleCNF)
	require.NoError(t, err)
	assert.Equal(t, exampleTree, tree.String())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
