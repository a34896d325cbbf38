// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package extension

import (
	"context"

	"github.com/hausbuch/hausbuch/pkg/menu"
)

// Runtime identifies the execution model of an extension unit.
type Runtime string

// Runtimes known to the engine.
const (
	RuntimeLua     Runtime = "lua"
	RuntimeBinary  Runtime = "binary"
	RuntimeBuiltin Runtime = "builtin"
)

// Candidate is a raw extension unit location produced by a Source during a
// scan. It lives for the duration of a single LoadPlugins call.
type Candidate struct {
	// ID is the extension identifier (a path basename without extension,
	// or a registered builtin identifier).
	ID string

	// Path locates the code unit on disk. Empty for builtin units.
	Path string

	// Runtime selects the Host that can load this candidate.
	Runtime Runtime
}

// Source enumerates candidate extension units. Enumeration is restartable:
// every call re-scans, and the order of returned candidates is the
// deterministic pre-sort order that breaks priority ties downstream.
type Source interface {
	Enumerate(ctx context.Context) ([]Candidate, error)
}

// Host loads extension units of one runtime.
type Host interface {
	// Runtime returns the runtime this host serves.
	Runtime() Runtime

	// Load resolves and initializes a single unit. Any per-unit fault is
	// returned as an error; it must never affect sibling units.
	Load(ctx context.Context, cand Candidate, name ParsedName) (*LoadedUnit, error)

	// Close shuts down the host and any resources held by loaded units.
	Close(ctx context.Context) error
}

// LoadedUnit is a successfully loaded extension unit. Owned by a single
// LoadPlugins invocation; never cached across calls.
type LoadedUnit struct {
	Name     ParsedName
	Priority int
	Handle   any
}

// Contributor probes the unit's handle for the menu contribution capability.
func (u *LoadedUnit) Contributor() (menu.Contributor, bool) {
	c, ok := u.Handle.(menu.Contributor)
	return c, ok
}
