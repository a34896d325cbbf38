// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hausbuch/hausbuch/internal/config"
	"github.com/hausbuch/hausbuch/internal/window"
	"github.com/hausbuch/hausbuch/pkg/menu"
)

// NewWindowCmd creates the window subcommand: it constructs a host window
// headlessly and prints the menu it composed.
func NewWindowCmd() *cobra.Command {
	scope := ""

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Construct a host window and print its composed menu",
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

			w, err := window.New(cmd.Context(), engine, scope, window.WithLogger(logger))
			if err != nil {
				return err
			}

			cmd.Printf("%s [%s]\n", w.Title(), w.Scope())
			printMenu(cmd, w.MenuBar(), 0)
			return nil
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().StringVar(&scope, "scope", "homepage", "window scope")
	return cmd
}

// printMenu renders an item tree with indentation.
func printMenu(cmd *cobra.Command, items []menu.Item, depth int) {
	indent := strings.Repeat("  ", depth+1)
	for _, it := range items {
		switch {
		case it.Separator:
			cmd.Println(indent + "----")
		case it.Action != "":
			cmd.Println(fmt.Sprintf("%s%s  (%s)", indent, it.Label, it.Action))
		default:
			cmd.Println(indent + it.Label)
		}
		if len(it.Items) > 0 {
			printMenu(cmd, it.Items, depth+1)
		}
	}
}
