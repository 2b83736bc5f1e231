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

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP transformation service",
	Long: `Starts cnftree as an HTTP service. POST /v1/transform converts the problem in
the request body; includes are resolved inside the TPTP root and may not leave
it. The OpenAPI document is served at /openapi.yaml and Prometheus metrics at
/metrics.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		app, err := newApp(cmd, cli.WithConfinedIncludes())
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()

		if cmd.Flags().Changed("addr") {
			app.Config.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("validate") {
			app.Config.Server.ValidateRequests, _ = cmd.Flags().GetBool("validate")
		}

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(cmd.OutOrStdout(), cnftree.Version)
		}
		return cli.RunServe(cmd.Context(), app, cmd.OutOrStdout(), nil)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("validate", false, "Validate requests against the OpenAPI document")
}
