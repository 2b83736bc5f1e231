package mcp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/cnftree"
	"github.com/aretw0/cnftree/pkg/adapters/memory"
	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleCNF = "cnf(test, axiom, ~ p(f(X, g(Y, Z))) | X = Y | $false)."

func newTestServer() *Server {
	conv := cnftree.New(cnftree.WithLoader(memory.NewLoader(map[string]string{
		"Axioms/A.ax": "cnf(a, axiom, q(W, a)).",
	})))
	return NewServer(conv, "test", nil)
}

func TestServer_Tools(t *testing.T) {
	s := newTestServer()
	tools := s.MCPServer().ListTools()
	require.Contains(t, tools, "transform_cnf")
	require.Contains(t, tools, "list_symbols")
	assert.Equal(t, "object", tools["transform_cnf"].Tool.OutputSchema.Type)
	assert.Contains(t, tools["transform_cnf"].Tool.OutputSchema.Properties, "symbols")
}

func TestServer_Transform(t *testing.T) {
	s := newTestServer()

	res, err := s.handleTransform(context.Background(), mcp.CallToolRequest{}, TransformArgs{Text: exampleCNF})
	require.NoError(t, err)
	assert.Equal(t, "sexpr", res.Format)
	assert.Equal(t, "(? p f g (& (! X Y Z (| (~ (p (f X (g Y Z)))) (= X Y) $false))))", res.Tree)
	assert.Equal(t, []string{"p", "f", "g"}, res.Symbols)
	assert.Equal(t, 1, res.Clauses)

	res, err = s.handleTransform(context.Background(), mcp.CallToolRequest{}, TransformArgs{Text: exampleCNF, Format: "json"})
	require.NoError(t, err)
	tree, err := codec.UnmarshalJSON([]byte(res.Tree))
	require.NoError(t, err)
	assert.Equal(t, res.Nodes, tree.Size())
}

func TestServer_TransformErrors(t *testing.T) {
	s := newTestServer()

	_, err := s.handleTransform(context.Background(), mcp.CallToolRequest{}, TransformArgs{Text: exampleCNF, Format: "proto"})
	assert.ErrorContains(t, err, "unsupported format")

	_, err = s.handleTransform(context.Background(), mcp.CallToolRequest{}, TransformArgs{Text: "cnf(a, axiom, p", Name: "broken.p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax: broken.p:")
}

func TestServer_ListSymbols(t *testing.T) {
	s := newTestServer()

	res, err := s.handleSymbols(context.Background(), mcp.CallToolRequest{}, SymbolsArgs{
		Text: "include('Axioms/A.ax').\ncnf(b, axiom, r(X) | q(X, W)).",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "a", "r"}, res.Symbols)
	assert.Equal(t, []string{"W", "X"}, res.Variables)
}

func TestServer_StructuredHandler(t *testing.T) {
	s := newTestServer()
	handler := mcp.NewStructuredToolHandler(s.handleSymbols)

	req := mcp.CallToolRequest{}
	req.Params.Name = "list_symbols"
	req.Params.Arguments = map[string]any{"text": "cnf(a, axiom, p(Y))."}
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, SymbolsResult{Symbols: []string{"p"}, Variables: []string{"Y"}}, result.StructuredContent)

	req.Params.Arguments = map[string]any{"text": "fof(a, axiom, p)."}
	result, err = handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_HTTPHandler(t *testing.T) {
	ts := httptest.NewServer(newTestServer().HTTPHandler())
	defer ts.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`
	resp, err := http.Post(ts.URL, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"cnftree"`)
}
