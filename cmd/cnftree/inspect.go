package main

import (
	"errors"

	"github.com/aretw0/cnftree/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [problem]",
	Short: "Print a report about a problem",
	Long: `Converts one problem and prints a report: counts, symbols and one line per
clause. --graph adds a Mermaid diagram of the tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		opts := cli.InspectOptions{Input: "-"}
		if len(args) > 0 {
			opts.Input = args[0]
		}
		opts.Graph, _ = cmd.Flags().GetBool("graph")
		opts.Raw, _ = cmd.Flags().GetBool("raw")

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()
		return cli.RunInspect(cmd.Context(), app, opts, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolP("graph", "g", false, "Include a Mermaid diagram of the tree")
	inspectCmd.Flags().Bool("raw", false, "Print the markdown source")
}
