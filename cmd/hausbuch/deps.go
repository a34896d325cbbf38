// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package main

import (
	"log/slog"

	"github.com/hausbuch/hausbuch/internal/config"
	"github.com/hausbuch/hausbuch/internal/extension"
	"github.com/hausbuch/hausbuch/internal/extension/builtin"
	"github.com/hausbuch/hausbuch/internal/extension/goplug"
	extlua "github.com/hausbuch/hausbuch/internal/extension/lua"
	"github.com/hausbuch/hausbuch/internal/logging"
)

// newLogger configures the process logger from config.
func newLogger(cfg config.Config) *slog.Logger {
	return logging.Setup("hausbuch", version, cfg.LogFormat, nil)
}

// allSources returns the candidate sources in scan order: builtin side
// table first, then the extension root.
func allSources(dir *extension.DirSource) []extension.Source {
	return []extension.Source{builtin.Source{}, dir}
}

// newEngine wires the composition engine: builtin units first (their
// registration order is the builtin tie-break order), then disk units in
// scan order, with one host per runtime.
func newEngine(cfg config.Config, logger *slog.Logger) (*extension.Engine, error) {
	dir, err := extension.NewDirSource(cfg.ExtensionsDir, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	opts := []extension.Option{
		extension.WithHost(builtin.NewHost()),
		extension.WithHost(extlua.NewHost(extlua.WithLogger(logger))),
		extension.WithHost(goplug.NewHost()),
		extension.WithLogger(logger),
		extension.WithLoadTimeout(cfg.LoadTimeout),
	}
	for _, src := range allSources(dir) {
		opts = append(opts, extension.WithSource(src))
	}
	return extension.NewEngine(opts...), nil
}
