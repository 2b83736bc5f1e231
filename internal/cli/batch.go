package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/aretw0/cnftree/pkg/runner"
	"github.com/schollz/progressbar/v3"
)

// BatchOptions configures RunBatch. Zero values fall back to the batch and
// format sections of the configuration.
type BatchOptions struct {
	// List is the file naming one problem per line; "-" reads standard input.
	List string
	// OutDir receives one <index>.<ext> file per problem.
	OutDir string
	// OutputFile, when set, replaces OutDir with one framed batch file.
	OutputFile string
	Format     string
	Compress   bool
	Workers    int
	KeepGoing  bool
	// Progress draws a progress bar on stderr.
	Progress bool
}

// RunBatch converts every problem of the list and prints a summary to out.
func RunBatch(ctx context.Context, app *App, opts BatchOptions, in io.Reader, out, stderr io.Writer) (*runner.Report, error) {
	paths, err := readList(opts.List, in)
	if err != nil {
		return nil, err
	}

	format, err := codec.ParseFormat(firstNonEmpty(opts.Format, app.Config.Format))
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers == 0 {
		workers = app.Config.Batch.Workers
	}

	runOpts := []runner.Option{
		runner.WithWorkers(workers),
		runner.WithFormat(format),
		runner.WithCompression(opts.Compress || app.Config.Compress),
		runner.WithKeepGoing(opts.KeepGoing || app.Config.Batch.KeepGoing),
		runner.WithLogger(app.Logger),
	}
	var bar *progressbar.ProgressBar
	if opts.Progress && len(paths) > 0 {
		bar = newProgressBar(stderr, len(paths))
		runOpts = append(runOpts, runner.WithProgress(func(runner.Result) {
			_ = bar.Add(1)
		}))
	}
	r := runner.New(app.Converter, runOpts...)

	var report *runner.Report
	if opts.OutputFile != "" {
		report, err = writeBatchFile(ctx, r, paths, opts.OutputFile)
	} else {
		report, err = r.WriteDir(ctx, paths, firstNonEmpty(opts.OutDir, "."))
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(stderr)
	}
	if report != nil {
		printBatchSummary(out, report)
	}
	return report, err
}

func readList(name string, stdin io.Reader) ([]string, error) {
	if name == "" || name == "-" {
		return runner.ReadList(stdin)
	}
	return runner.ReadListFile(name)
}

func writeBatchFile(ctx context.Context, r *runner.Runner, paths []string, name string) (report *runner.Report, err error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return r.WriteStream(ctx, paths, f)
}

func newProgressBar(w io.Writer, n int) *progressbar.ProgressBar {
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("[cyan]Converting problems...[reset]"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printBatchSummary(w io.Writer, report *runner.Report) {
	failed := report.Failed()
	for _, res := range failed {
		if errors.Is(res.Err, runner.ErrSkipped) {
			continue
		}
		fmt.Fprintf(w, "FAIL %d %s: %s: %v\n", res.Index, res.Path, domain.Kind(res.Err), res.Err)
	}
	printSystemMessage(w, "%d of %d problems converted.", report.Succeeded(), len(report.Results))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
