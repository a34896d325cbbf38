// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package lua

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/hausbuch/hausbuch/internal/extension"
)

// Compile-time interface check.
var _ extension.Host = (*Host)(nil)

// Host loads Lua script extension units. Each unit is syntax-validated in a
// throwaway state at load time; contribution later runs in a fresh state so
// script-level globals never leak between invocations.
type Host struct {
	factory *stateFactory
	logger  *slog.Logger
}

// Option configures the Host.
type Option func(*Host)

// WithLogger sets the host logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// NewHost creates a Lua extension host.
func NewHost(opts ...Option) *Host {
	h := &Host{factory: newStateFactory()}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Runtime returns the runtime this host serves.
func (h *Host) Runtime() extension.Runtime {
	return extension.RuntimeLua
}

// Load reads and validates a Lua script unit. Every fault — unreadable
// file, syntax error, error raised during script-level evaluation, an
// incompatible host API constraint — comes back as an error for the engine
// to absorb; nothing here can affect sibling units.
func (h *Host) Load(ctx context.Context, cand extension.Candidate, name extension.ParsedName) (*extension.LoadedUnit, error) {
	code, err := os.ReadFile(filepath.Clean(cand.Path))
	if err != nil {
		return nil, oops.In("lua").
			Code("load_failure").
			With("id", cand.ID).
			With("path", cand.Path).
			Hint("failed to read script").
			Wrap(err)
	}

	L, err := h.factory.NewState(ctx)
	if err != nil {
		return nil, oops.In("lua").Code("load_failure").With("id", cand.ID).Hint("failed to create validation state").Wrap(err)
	}
	defer L.Close()

	if err := L.DoString(string(code)); err != nil {
		return nil, oops.In("lua").Code("load_failure").With("id", cand.ID).Hint("script evaluation failed").Wrap(err)
	}

	if rv := L.GetGlobal("requires_api"); rv.Type() != lua.LTNil {
		if err := extension.CheckAPIConstraint(rv.String()); err != nil {
			return nil, oops.In("lua").With("id", cand.ID).Wrap(err)
		}
	}

	return &extension.LoadedUnit{
		Name:     name,
		Priority: h.readPriority(L, cand.ID),
		Handle: &Unit{
			id:      cand.ID,
			code:    string(code),
			factory: h.factory,
			logger:  h.logger,
		},
	}, nil
}

// Close shuts down the host. Lua states are per-invocation, so there is
// nothing to release.
func (h *Host) Close(_ context.Context) error {
	return nil
}

// readPriority extracts the optional ordering value from the evaluated
// script. Absence is not an error and resolves to the default sentinel;
// "menu_id" is accepted as a legacy alias of "priority".
func (h *Host) readPriority(state *lua.LState, id string) int {
	for _, global := range []string{"priority", "menu_id"} {
		rv := state.GetGlobal(global)
		switch rv.Type() {
		case lua.LTNil:
			continue
		case lua.LTNumber:
			return int(rv.(lua.LNumber))
		default:
			h.logger.Warn("extension declares non-numeric ordering value, using default",
				"id", id,
				"global", global,
				"type", rv.Type().String())
			return extension.DefaultPriority
		}
	}
	return extension.DefaultPriority
}
