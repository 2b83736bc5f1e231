package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/cnftree/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var batchCmd = &cobra.Command{
	Use:   "batch [list]",
	Short: "Convert every problem of a list",
	Long: `Reads a list of problem paths, one per line (blank lines and lines starting
with # are skipped), converts them in parallel and writes <index>.<ext> for each
problem into the output directory, or a single framed file with --output-file.

By default the first failure stops the batch; --keep-going reports failures
and converts the rest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		opts := cli.BatchOptions{List: "-"}
		if len(args) > 0 {
			opts.List = args[0]
		}
		opts.OutDir, _ = cmd.Flags().GetString("out-dir")
		opts.OutputFile, _ = cmd.Flags().GetString("output-file")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.Compress, _ = cmd.Flags().GetBool("compress")
		opts.Workers, _ = cmd.Flags().GetInt("workers")
		opts.KeepGoing, _ = cmd.Flags().GetBool("keep-going")
		noProgress, _ := cmd.Flags().GetBool("no-progress")
		opts.Progress = !noProgress && term.IsTerminal(int(os.Stderr.Fd()))

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()

		report, err := cli.RunBatch(cmd.Context(), app, opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if n := len(report.Failed()); n > 0 {
			return fmt.Errorf("%d of %d problems could not be converted", n, len(report.Results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("out-dir", "d", ".", "Directory receiving one file per problem")
	batchCmd.Flags().StringP("output-file", "o", "", "Write all trees to this framed file instead")
	batchCmd.Flags().StringP("format", "f", "", "Output format: proto, json or sexpr")
	batchCmd.Flags().BoolP("compress", "z", false, "Compress the output with zstd")
	batchCmd.Flags().IntP("workers", "j", 0, "Problems converted in parallel (default from config)")
	batchCmd.Flags().BoolP("keep-going", "k", false, "Report failed problems and continue")
	batchCmd.Flags().Bool("no-progress", false, "Do not draw a progress bar")
}
