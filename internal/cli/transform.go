package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/cnftree/internal/presentation/tui"
	"github.com/aretw0/cnftree/pkg/adapters/file"
	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/aretw0/cnftree/pkg/domain"
)

// FormatTree is the indented, coloured outline meant for people.
const FormatTree = "tree"

// TransformOptions configures RunTransform.
type TransformOptions struct {
	// Inputs are problem paths. "-" or no input at all reads standard input.
	Inputs []string
	// Format is proto, json, sexpr or tree. Empty picks tree on a terminal
	// and the configured format otherwise.
	Format string
	// Output is a file to write instead of out.
	Output   string
	Compress bool
}

// RunTransform converts each input and writes the trees, in input order, as
// one framed stream.
func RunTransform(ctx context.Context, app *App, opts TransformOptions, in io.Reader, out io.Writer) (err error) {
	inputs := opts.Inputs
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	trees := make([]*domain.Node, 0, len(inputs))
	for _, input := range inputs {
		tree, err := transformInput(ctx, app, input, in)
		if err != nil {
			return err
		}
		trees = append(trees, tree)
	}

	w := out
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		w = f
	}

	format := opts.Format
	if format == "" {
		format = app.Config.Format
		if isTerminal(w) && !opts.Compress {
			format = FormatTree
		}
	}
	if format == FormatTree {
		if opts.Compress {
			return errors.New("the tree view cannot be compressed")
		}
		printer := tui.NewTreePrinter(colorProfile(w))
		for _, tree := range trees {
			if err := printer.Print(w, tree); err != nil {
				return err
			}
		}
		return nil
	}
	return encodeTrees(w, format, opts.Compress, trees)
}

func transformInput(ctx context.Context, app *App, input string, stdin io.Reader) (*domain.Node, error) {
	if input != "-" {
		return app.Converter.TransformFile(ctx, input)
	}
	text, err := file.DecodeText(stdin)
	if err != nil {
		return nil, &domain.IOError{Path: StdinName, Err: err}
	}
	return app.Converter.TransformText(ctx, StdinName, text)
}

func encodeTrees(w io.Writer, format string, compress bool, trees []*domain.Node) (err error) {
	f, err := codec.ParseFormat(format)
	if err != nil {
		return err
	}
	if compress {
		cw, err := codec.NewCompressWriter(w)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, cw.Close())
		}()
		w = cw
	}
	enc, err := codec.NewEncoder(f, w)
	if err != nil {
		return err
	}
	for _, tree := range trees {
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}
	}
	return nil
}
