// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package extension

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/hausbuch/hausbuch/pkg/errutil"
)

// Engine is the composition façade. It threads sources, the naming parser,
// the scope filter, runtime hosts, and the order resolver together; host
// windows depend on nothing else.
//
// The engine holds no per-call state: every LoadPlugins call re-scans its
// sources, trading scan cost for correctness when the extension set changes
// between calls (hot-editable extensions during development).
type Engine struct {
	sources     []Source
	hosts       map[Runtime]Host
	logger      *slog.Logger
	loadTimeout time.Duration
}

// Option configures the Engine.
type Option func(*Engine)

// WithSource appends a candidate source. Sources are scanned in the order
// they were added; that order is part of the tie-break contract.
func WithSource(s Source) Option {
	return func(e *Engine) {
		e.sources = append(e.sources, s)
	}
}

// WithHost registers a runtime host.
func WithHost(h Host) Option {
	return func(e *Engine) {
		e.hosts[h.Runtime()] = h
	}
}

// WithLogger sets the engine logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithLoadTimeout bounds each per-unit load as a hardening measure. Zero
// disables the bound; a hung load is then a defect in that unit.
func WithLoadTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.loadTimeout = d
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		hosts: make(map[Runtime]Host),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// LoadPlugins runs one composition pass: enumerate candidates, parse and
// filter their identifiers, load the qualifying units, and return them
// stable-sorted by ascending priority. An empty result is a valid outcome.
//
// Only a source enumeration fault aborts the call. A candidate that does not
// fit the naming convention or targets another scope is silently dropped; a
// per-unit load fault is logged and drops that one unit, never its siblings.
func (e *Engine) LoadPlugins(ctx context.Context, kind, scope string) ([]*LoadedUnit, error) {
	log := e.logger.With(
		"scan_id", newScanID().String(),
		"kind", kind,
		"scope", scope,
	)

	var units []*LoadedUnit
	for _, src := range e.sources {
		cands, err := src.Enumerate(ctx)
		if err != nil {
			return nil, err
		}

		for _, cand := range cands {
			name, ok := ParseName(cand.ID)
			if !ok {
				if strings.HasPrefix(cand.ID, NamePrefix+nameDelimiter) {
					// Near-miss: starts like an extension but does not
					// decompose. Unrelated files stay silent.
					log.Debug("identifier does not fit naming convention", "id", cand.ID)
				}
				continue
			}
			if !Matches(name, kind, scope) {
				continue
			}

			unit, err := e.loadOne(ctx, cand, name)
			if err != nil {
				errutil.LogError(log, "failed to load extension unit", err)
				continue
			}
			units = append(units, unit)
			log.Debug("loaded extension unit",
				"id", cand.ID,
				"runtime", string(cand.Runtime),
				"priority", unit.Priority)
		}
	}

	SortUnits(units)
	return units, nil
}

// loadOne dispatches a qualifying candidate to its runtime host, bounding
// the load when a timeout is configured and converting panics raised during
// unit initialization into errors.
func (e *Engine) loadOne(ctx context.Context, cand Candidate, name ParsedName) (unit *LoadedUnit, err error) {
	host, ok := e.hosts[cand.Runtime]
	if !ok {
		return nil, oops.In("extension").
			Code("runtime_unavailable").
			With("id", cand.ID).
			With("runtime", string(cand.Runtime)).
			New("no host registered for runtime")
	}

	if e.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.loadTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			unit = nil
			err = oops.In("extension").
				Code("load_panic").
				With("id", cand.ID).
				With("panic", r).
				New("extension unit panicked during load")
		}
	}()

	return host.Load(ctx, cand, name)
}

// Close shuts down all registered hosts.
func (e *Engine) Close(ctx context.Context) error {
	var firstErr error
	for _, h := range e.hosts {
		if err := h.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
