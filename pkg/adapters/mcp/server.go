package mcp

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"

	"github.com/aretw0/cnftree/internal/logging"
	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultDocumentName names tool input documents in error positions.
const DefaultDocumentName = "input.p"

// Transformer is the part of *cnftree.Converter the tools need.
type Transformer interface {
	TransformText(ctx context.Context, name string, text []byte) (*domain.Node, error)
}

// TransformArgs are the arguments of transform_cnf.
type TransformArgs struct {
	Text   string `json:"text"`
	Name   string `json:"name,omitempty"`
	Format string `json:"format,omitempty"`
}

// TransformResult is the structured output of transform_cnf.
type TransformResult struct {
	Format  string   `json:"format" jsonschema_description:"Encoding of tree: sexpr or json"`
	Tree    string   `json:"tree" jsonschema_description:"The labeled tree"`
	Symbols []string `json:"symbols" jsonschema_description:"Function and predicate symbols, first occurrence order"`
	Clauses int      `json:"clauses" jsonschema_description:"Number of clauses after include resolution"`
	Nodes   int      `json:"nodes" jsonschema_description:"Total number of tree nodes"`
}

// SymbolsArgs are the arguments of list_symbols.
type SymbolsArgs struct {
	Text string `json:"text"`
	Name string `json:"name,omitempty"`
}

// SymbolsResult is the structured output of list_symbols.
type SymbolsResult struct {
	Symbols   []string `json:"symbols" jsonschema_description:"Function and predicate symbols"`
	Variables []string `json:"variables" jsonschema_description:"Variable names, across all clauses"`
}

// Server exposes the transformer as MCP tools.
type Server struct {
	conv      Transformer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server. version is reported to clients.
func NewServer(conv Transformer, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		conv:   conv,
		logger: logger,
		mcpServer: server.NewMCPServer("cnftree", version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
			server.WithInstructions("Converts TPTP CNF problems into canonical labeled trees."),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on stdin/stdout until ctx is done or stdin closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(io.Discard, "", 0))
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler serves the tools over the streamable HTTP transport. Mount it
// at a single path, e.g. /mcp.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("transform_cnf",
		mcp.WithDescription("Convert TPTP CNF text into a labeled tree. Includes are resolved against the server's TPTP root."),
		mcp.WithString("text", mcp.Required(), mcp.Description("TPTP CNF problem text")),
		mcp.WithString("name", mcp.Description("Document name used in error messages")),
		mcp.WithString("format", mcp.Enum("sexpr", "json"), mcp.Description("Tree encoding (default sexpr)")),
		mcp.WithOutputSchema[TransformResult](),
	), mcp.NewStructuredToolHandler(s.handleTransform))

	s.mcpServer.AddTool(mcp.NewTool("list_symbols",
		mcp.WithDescription("List the function, predicate and variable names used by TPTP CNF text."),
		mcp.WithString("text", mcp.Required(), mcp.Description("TPTP CNF problem text")),
		mcp.WithString("name", mcp.Description("Document name used in error messages")),
		mcp.WithOutputSchema[SymbolsResult](),
	), mcp.NewStructuredToolHandler(s.handleSymbols))
}

func (s *Server) transform(ctx context.Context, name, text string) (*domain.Node, error) {
	if name == "" {
		name = DefaultDocumentName
	}
	tree, err := s.conv.TransformText(ctx, name, []byte(text))
	if err != nil {
		s.logger.WarnContext(ctx, "mcp transform failed", "kind", domain.Kind(err), "error", err)
		return nil, fmt.Errorf("%s: %w", domain.Kind(err), err)
	}
	return tree, nil
}

func (s *Server) handleTransform(ctx context.Context, _ mcp.CallToolRequest, args TransformArgs) (TransformResult, error) {
	format := codec.FormatSExpr
	if args.Format != "" {
		f, err := codec.ParseFormat(args.Format)
		if err != nil || f == codec.FormatProto {
			return TransformResult{}, fmt.Errorf("unsupported format %q, want sexpr or json", args.Format)
		}
		format = f
	}

	tree, err := s.transform(ctx, args.Name, args.Text)
	if err != nil {
		return TransformResult{}, err
	}
	data, err := codec.Marshal(format, tree)
	if err != nil {
		return TransformResult{}, err
	}
	return TransformResult{
		Format:  string(format),
		Tree:    string(data),
		Symbols: tree.Bound(),
		Clauses: len(tree.Body().Children),
		Nodes:   tree.Size(),
	}, nil
}

func (s *Server) handleSymbols(ctx context.Context, _ mcp.CallToolRequest, args SymbolsArgs) (SymbolsResult, error) {
	tree, err := s.transform(ctx, args.Name, args.Text)
	if err != nil {
		return SymbolsResult{}, err
	}
	res := SymbolsResult{Symbols: tree.Bound(), Variables: []string{}}
	seen := map[string]bool{}
	for _, clause := range tree.Body().Children {
		for _, v := range clause.Bound() {
			if !seen[v] {
				seen[v] = true
				res.Variables = append(res.Variables, v)
			}
		}
	}
	return res, nil
}
