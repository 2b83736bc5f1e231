package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/cnftree"
	"github.com/aretw0/cnftree/internal/cli"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cnftree",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cnftree version %s\n", strings.TrimSpace(cnftree.Version))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(globalOptions(cmd))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), cfg.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, configCmd)
}
