// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

// Package builtin is the compile-time extension registry. Go-native units
// register themselves from init functions into a side table; the engine
// sees them through the same Source/Host contract as disk units, so the
// naming convention, scope filtering, and ordering apply uniformly.
package builtin

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/hausbuch/hausbuch/internal/extension"
	"github.com/hausbuch/hausbuch/pkg/menu"
)

// ContributeFunc is the entry point of a builtin unit.
type ContributeFunc func(ctx context.Context, host menu.Host) ([]menu.Item, error)

// Registration describes one builtin extension unit.
type Registration struct {
	// ID is the full extension identifier (plugin_<scope>_<kind>_<name>).
	ID string

	// Priority is the optional ordering value. Nil resolves to the default
	// sentinel, placing the unit after explicitly ordered ones.
	Priority *int

	// RequiresAPI is an optional semver constraint on the host API version.
	RequiresAPI string

	// Contribute is the unit's entry point.
	Contribute ContributeFunc
}

var (
	regMu sync.RWMutex
	regs  []Registration
	byID  = make(map[string]int)
)

// Register adds a builtin unit to the side table. Registration order is the
// deterministic enumeration order for builtin units. Duplicate and
// malformed identifiers are rejected.
func Register(r Registration) error {
	if _, ok := extension.ParseName(r.ID); !ok {
		return oops.In("builtin").With("id", r.ID).New("identifier does not fit naming convention")
	}
	if r.Contribute == nil {
		return oops.In("builtin").With("id", r.ID).New("contribute entry point is required")
	}

	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := byID[r.ID]; dup {
		return oops.In("builtin").With("id", r.ID).New("identifier already registered")
	}
	byID[r.ID] = len(regs)
	regs = append(regs, r)
	return nil
}

// MustRegister is Register for init-time side tables; it panics on error.
func MustRegister(r Registration) {
	if err := Register(r); err != nil {
		panic(err)
	}
}

// Reset clears the side table. Used for testing.
func Reset() {
	regMu.Lock()
	defer regMu.Unlock()
	regs = nil
	byID = make(map[string]int)
}

// Source enumerates registered builtin units in registration order.
type Source struct{}

var _ extension.Source = Source{}

// Enumerate returns one candidate per registration, in registration order.
func (Source) Enumerate(_ context.Context) ([]extension.Candidate, error) {
	regMu.RLock()
	defer regMu.RUnlock()

	cands := make([]extension.Candidate, 0, len(regs))
	for _, r := range regs {
		cands = append(cands, extension.Candidate{
			ID:      r.ID,
			Runtime: extension.RuntimeBuiltin,
		})
	}
	return cands, nil
}

// Host materializes handles for registered builtin units.
type Host struct{}

var _ extension.Host = Host{}

// NewHost creates a builtin host.
func NewHost() Host {
	return Host{}
}

// Runtime returns the runtime this host serves.
func (Host) Runtime() extension.Runtime {
	return extension.RuntimeBuiltin
}

// Load resolves a candidate against the side table.
func (Host) Load(_ context.Context, cand extension.Candidate, name extension.ParsedName) (*extension.LoadedUnit, error) {
	regMu.RLock()
	idx, ok := byID[cand.ID]
	var r Registration
	if ok {
		r = regs[idx]
	}
	regMu.RUnlock()

	if !ok {
		return nil, oops.In("builtin").Code("load_failure").With("id", cand.ID).New("unit is not registered")
	}
	if err := extension.CheckAPIConstraint(r.RequiresAPI); err != nil {
		return nil, oops.In("builtin").With("id", cand.ID).Wrap(err)
	}

	priority := extension.DefaultPriority
	if r.Priority != nil {
		priority = *r.Priority
	}
	return &extension.LoadedUnit{
		Name:     name,
		Priority: priority,
		Handle:   &Unit{id: cand.ID, contribute: r.Contribute},
	}, nil
}

// Close is a no-op; builtin units hold no resources.
func (Host) Close(_ context.Context) error {
	return nil
}

// Unit is the opaque handle for a builtin registration.
type Unit struct {
	id         string
	contribute ContributeFunc
}

var _ menu.Contributor = (*Unit)(nil)

// ID returns the unit's extension identifier.
func (u *Unit) ID() string {
	return u.id
}

// ContributeMenu invokes the registered entry point.
func (u *Unit) ContributeMenu(ctx context.Context, host menu.Host) ([]menu.Item, error) {
	return u.contribute(ctx, host)
}
