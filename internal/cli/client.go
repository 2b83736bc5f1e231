package cli

import (
	"context"
	"fmt"
	"io"

	httpadapter "github.com/aretw0/cnftree/pkg/adapters/http"
	"github.com/aretw0/cnftree/pkg/codec"
)

// Client defaults: the example clause and the address `cnftree serve` uses.
const (
	DefaultClientAddr = "localhost:8080"
	DefaultClientText = "cnf(test, axiom, ~ p(f(X, g(Y, Z))) | X = Y | $false)."
)

// ClientOptions configures RunClient.
type ClientOptions struct {
	Addr    string
	Text    string
	BaseDir string
	// Wire is the encoding requested from the server.
	Wire string
}

// RunClient sends text to a running service and prints the tree as an
// s-expression.
func RunClient(ctx context.Context, opts ClientOptions, out io.Writer) error {
	wire, err := codec.ParseFormat(firstNonEmpty(opts.Wire, string(codec.FormatProto)))
	if err != nil {
		return err
	}
	client := httpadapter.NewClient(firstNonEmpty(opts.Addr, DefaultClientAddr), httpadapter.WithWireFormat(wire))
	tree, err := client.Do(ctx, httpadapter.TransformRequest{
		Text:    firstNonEmpty(opts.Text, DefaultClientText),
		BaseDir: opts.BaseDir,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, tree)
	return err
}
