package main

import (
	"errors"

	"github.com/aretw0/cnftree/internal/cli"
	"github.com/spf13/cobra"
)

var transformCmd = &cobra.Command{
	Use:   "transform [problem...]",
	Short: "Convert problems into labeled trees",
	Long: `Converts each problem and writes the trees, in argument order, as one framed
stream. With no problem (or "-") the problem is read from standard input.

On a terminal the trees are shown as a coloured outline; otherwise the
configured format (proto by default) is written.`,
	Example: `  cnftree transform Problems/GRP/GRP001-1.p
  cnftree --base-dir $TPTP transform -f sexpr Problems/SET/SET001-1.p
  echo 'cnf(c, axiom, p(X)).' | cnftree transform -f json`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		compress, _ := cmd.Flags().GetBool("compress")

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()

		opts := cli.TransformOptions{Inputs: args, Format: format, Output: output, Compress: compress}
		return cli.RunTransform(cmd.Context(), app, opts, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.Flags().StringP("format", "f", "", "Output format: proto, json, sexpr or tree")
	transformCmd.Flags().StringP("output", "o", "", "Write to this file instead of standard output")
	transformCmd.Flags().BoolP("compress", "z", false, "Compress the output with zstd")
}
