// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Hausbuch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hausbuch",
		Short: "Hausbuch - a household ledger with an extensible menu system",
		Long: `Hausbuch is a household ledger application whose windows compose
their menus from extension units discovered at startup.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewPluginsCmd())
	cmd.AddCommand(NewWindowCmd())
	cmd.AddCommand(NewWatchCmd())

	return cmd
}
