package main

import (
	"errors"

	"github.com/aretw0/cnftree/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts cnftree as an MCP server, exposing the transform_cnf and list_symbols
tools to AI agents.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- http: Streamable HTTP at /mcp. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		app, err := newApp(cmd, cli.WithConfinedIncludes())
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()

		opts := cli.MCPOptions{Transport: transport, Addr: addr}
		return cli.RunMCP(cmd.Context(), app, opts, cmd.InOrStdin(), cmd.OutOrStdout(), nil)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", cli.TransportStdio, "Transport: stdio or http")
	mcpCmd.Flags().StringP("addr", "a", "", "Address of the http transport (default from config)")
}
