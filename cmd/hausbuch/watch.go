// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/hausbuch/hausbuch/internal/config"
	"github.com/hausbuch/hausbuch/pkg/errutil"
)

// NewWatchCmd creates the watch subcommand: a development helper that
// re-runs composition whenever the extension root changes. The engine
// itself never caches, so each pass reflects the current disk state.
func NewWatchCmd() *cobra.Command {
	kind := "menu"
	scope := ""

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run composition whenever the extension root changes",
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

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()

			// The root may appear slightly after the command starts
			// (e.g. a build step recreating it); retry with backoff.
			backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
			if err := retry.Do(cmd.Context(), backoff, func(_ context.Context) error {
				if err := watcher.Add(cfg.ExtensionsDir); err != nil {
					return retry.RetryableError(err)
				}
				return nil
			}); err != nil {
				return fmt.Errorf("failed to watch %s: %w", cfg.ExtensionsDir, err)
			}

			compose := func() {
				units, err := engine.LoadPlugins(cmd.Context(), kind, scope)
				if err != nil {
					errutil.LogError(logger, "composition failed", err)
					return
				}
				cmd.Printf("composed %d unit(s) for kind=%s scope=%s\n", len(units), kind, scope)
				for _, u := range units {
					cmd.Printf("  %s (priority %d)\n", u.Name.ID(), u.Priority)
				}
			}
			compose()

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
						logger.Info("extension root changed", "path", ev.Name, "op", ev.Op.String())
						compose()
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					errutil.LogWarn(logger, "watch error", err)
				}
			}
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().StringVar(&kind, "kind", "menu", "contribution kind to compose")
	cmd.Flags().StringVar(&scope, "scope", "homepage", "window scope to compose for")
	return cmd
}
