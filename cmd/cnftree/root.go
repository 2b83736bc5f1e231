package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/cnftree/internal/cli"
	"github.com/aretw0/cnftree/pkg/runner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cnftree",
	Short: "cnftree converts TPTP CNF problems into canonical labeled trees",
	Long: `cnftree reads problems written in the clause normal form (CNF) subset of the
TPTP language, resolves their include directives against a TPTP root and
emits one labeled tree per problem, ready to be consumed by learning tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	sm := runner.NewSignalManager(context.Background())
	err := rootCmd.ExecuteContext(sm.Context())
	interrupted := sm.Interrupted()
	sm.Stop()

	if err != nil {
		if interrupted {
			fmt.Fprintln(os.Stderr, ">>> Interrupted.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("base-dir", "", "TPTP root that include paths are resolved against (default $TPTP or .)")
}

func globalOptions(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	baseDir, _ := cmd.Flags().GetString("base-dir")
	return cli.Options{ConfigPath: configPath, LogLevel: logLevel, BaseDir: baseDir}
}

// newApp loads the configuration and wires the converter for cmd.
func newApp(cmd *cobra.Command, opts ...cli.AppOption) (*cli.App, error) {
	cfg, err := cli.LoadConfig(globalOptions(cmd))
	if err != nil {
		return nil, err
	}
	return cli.NewApp(cmd.Context(), cfg, opts...)
}
