package main

import (
	"os"
	"strings"

	"github.com/aretw0/cnftree/internal/cli"
	"github.com/spf13/cobra"
)

var clientCmd = &cobra.Command{
	Use:   "client [cnf text]",
	Short: "Send a problem to a running service",
	Long: `Sends CNF text to a cnftree service and prints the returned tree as an
s-expression. Without text (and without --file) a sample clause is sent.`,
	Example: `  cnftree client
  cnftree client --addr tptp.internal:8080 'cnf(c, axiom, p(X) | ~ q(X)).'
  cnftree client --file Problems/GRP/GRP001-1.p --dir Problems/GRP`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ClientOptions{Text: strings.Join(args, " ")}
		opts.Addr, _ = cmd.Flags().GetString("addr")
		opts.Wire, _ = cmd.Flags().GetString("wire")
		opts.BaseDir, _ = cmd.Flags().GetString("dir")

		if path, _ := cmd.Flags().GetString("file"); path != "" {
			text, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			opts.Text = string(text)
		}
		return cli.RunClient(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.Flags().StringP("addr", "a", cli.DefaultClientAddr, "Service address")
	clientCmd.Flags().String("wire", "proto", "Response encoding: proto, json or sexpr")
	clientCmd.Flags().String("dir", "", "Base directory on the server, relative to its TPTP root")
	clientCmd.Flags().String("file", "", "Send the content of this file")
}
