package main

import (
	"errors"

	"github.com/aretw0/cnftree/internal/cli"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the tree cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the keys of cached trees",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()
		return cli.RunCacheList(cmd.Context(), app, cmd.OutOrStdout())
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached tree",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()
		return cli.RunCacheClear(cmd.Context(), app, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)
}
