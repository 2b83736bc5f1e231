package main

import (
	"errors"
	"os"

	"github.com/aretw0/cnftree"
	"github.com/aretw0/cnftree/internal/cli"
	"github.com/aretw0/cnftree/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var watchCmd = &cobra.Command{
	Use:   "watch <problem>",
	Short: "Convert a problem again whenever it or its includes change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		format, _ := cmd.Flags().GetString("format")

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(cmd.OutOrStdout(), cnftree.Version)
		}
		return cli.RunWatch(cmd.Context(), app, cli.WatchOptions{Input: args[0], Format: format}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("format", "f", "", "Output format: tree or sexpr")
}
