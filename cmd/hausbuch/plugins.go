// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hausbuch/hausbuch/internal/config"
	"github.com/hausbuch/hausbuch/internal/extension"
)

// pluginsConfig holds flags shared by the plugins subcommands.
type pluginsConfig struct {
	kind   string
	scope  string
	output string
}

// unitReport is one row of plugins output.
type unitReport struct {
	ID       string `yaml:"id"`
	Scope    string `yaml:"scope"`
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"`
}

// NewPluginsCmd creates the plugins subcommand group.
func NewPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect extension units",
	}
	cmd.AddCommand(newPluginsListCmd())
	cmd.AddCommand(newPluginsComposeCmd())
	return cmd
}

// newPluginsListCmd lists every candidate that fits the naming convention,
// before scope filtering or loading.
func newPluginsListCmd() *cobra.Command {
	output := "table"

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered extension units across all scopes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			engine, err := newEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close(cmd.Context()) }()

			names, err := discoverNames(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			reports := make([]unitReport, 0, len(names))
			for _, n := range names {
				reports = append(reports, unitReport{
					ID:    n.ID(),
					Scope: n.Scope,
					Kind:  n.Kind,
					Name:  n.Name,
				})
			}
			return printReports(cmd, output, reports, false)
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table or yaml)")
	return cmd
}

// newPluginsComposeCmd runs one full composition pass and prints the
// resulting activation order.
func newPluginsComposeCmd() *cobra.Command {
	pc := &pluginsConfig{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Run a composition pass and print the activation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			engine, err := newEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close(cmd.Context()) }()

			units, err := engine.LoadPlugins(cmd.Context(), pc.kind, pc.scope)
			if err != nil {
				return err
			}

			reports := make([]unitReport, 0, len(units))
			for _, u := range units {
				reports = append(reports, unitReport{
					ID:       u.Name.ID(),
					Scope:    u.Name.Scope,
					Kind:     u.Name.Kind,
					Name:     u.Name.Name,
					Priority: u.Priority,
				})
			}
			return printReports(cmd, pc.output, reports, true)
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().StringVar(&pc.kind, "kind", "menu", "contribution kind to compose")
	cmd.Flags().StringVar(&pc.scope, "scope", "", "window scope to compose for")
	cmd.Flags().StringVarP(&pc.output, "output", "o", "table", "output format (table or yaml)")
	_ = cmd.MarkFlagRequired("scope")
	return cmd
}

// addConfigFlags registers the flags the config layer overlays.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("extensions-dir", "", "extension root directory")
	cmd.Flags().String("log-format", "", "log format (json or text)")
	cmd.Flags().StringSlice("ignore", nil, "glob patterns to exclude from scans")
	cmd.Flags().String("load-timeout", "", "per-unit load timeout (e.g. 2s, 0 to disable)")
}

// discoverNames enumerates all sources and parses candidate identifiers
// without loading anything.
func discoverNames(ctx context.Context, cfg config.Config) ([]extension.ParsedName, error) {
	dir, err := extension.NewDirSource(cfg.ExtensionsDir, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	var names []extension.ParsedName
	for _, src := range allSources(dir) {
		cands, err := src.Enumerate(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range cands {
			if n, ok := extension.ParseName(c.ID); ok {
				names = append(names, n)
			}
		}
	}
	return names, nil
}

// printReports renders reports as a table or YAML.
func printReports(cmd *cobra.Command, output string, reports []unitReport, withPriority bool) error {
	switch output {
	case "yaml":
		data, err := yaml.Marshal(reports)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Print(string(data))
		return nil
	case "table":
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		if withPriority {
			fmt.Fprintln(tw, "ID\tSCOPE\tKIND\tNAME\tPRIORITY")
			for _, r := range reports {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.ID, r.Scope, r.Kind, r.Name, r.Priority)
			}
		} else {
			fmt.Fprintln(tw, "ID\tSCOPE\tKIND\tNAME")
			for _, r := range reports {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Scope, r.Kind, r.Name)
			}
		}
		return tw.Flush()
	default:
		return fmt.Errorf("output must be 'table' or 'yaml', got %q", output)
	}
}
