// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

// Package config loads engine configuration from an optional YAML file and
// command-line flags, flags winning.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/hausbuch/hausbuch/internal/xdg"
)

// Config holds the engine and CLI configuration.
type Config struct {
	// ExtensionsDir is the extension root scanned by the engine.
	ExtensionsDir string

	// LogFormat is "json" or "text".
	LogFormat string

	// Ignore lists glob patterns for file basenames excluded from scans.
	Ignore []string

	// LoadTimeout bounds each per-unit load. Zero disables the bound.
	LoadTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ExtensionsDir: xdg.ExtensionsDir(),
		LogFormat:     "json",
	}
}

// Load reads configuration, layering an optional YAML file under flag
// values. path selects an explicit config file; when empty, the default
// XDG location is used if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path == "" {
		candidate := filepath.Join(xdg.ConfigDir(), "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if flags != nil {
		// Flag names are kebab-case; config keys use underscores.
		p := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(p, nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unset flags surface as empty values; those keep the defaults.
	cfg := Default()
	if v := k.String("extensions_dir"); v != "" {
		cfg.ExtensionsDir = v
	}
	if v := k.String("log_format"); v != "" {
		cfg.LogFormat = v
	}
	if v := k.Strings("ignore"); len(v) > 0 {
		cfg.Ignore = v
	}
	if v := k.String("load_timeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid load_timeout: %w", err)
		}
		cfg.LoadTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks configuration constraints.
func (c Config) Validate() error {
	if c.ExtensionsDir == "" {
		return fmt.Errorf("extensions_dir is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.LoadTimeout < 0 {
		return fmt.Errorf("load_timeout must not be negative")
	}
	return nil
}
