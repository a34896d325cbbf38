// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

// Package window models the host window that requests menu composition.
// The window owns a scope tag and a menu-bar model; extensions contribute
// declarative items which the window appends in activation order.
package window

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/hausbuch/hausbuch/internal/extension"
	"github.com/hausbuch/hausbuch/pkg/errutil"
	"github.com/hausbuch/hausbuch/pkg/menu"
)

// MenuKind is the contribution kind windows request during construction.
const MenuKind = "menu"

// Window is a host window. It composes its menu once, during construction;
// a broken extension can cost it a menu entry but never its construction.
type Window struct {
	scope  string
	title  string
	logger *slog.Logger

	mu       sync.Mutex
	menuBar  []menu.Item
	status   string
	messages []string
}

var _ menu.Host = (*Window)(nil)

// Option configures a Window.
type Option func(*Window)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(w *Window) {
		w.title = title
	}
}

// WithLogger sets the window logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Window) {
		w.logger = l
	}
}

// New constructs a window for the given scope, running menu composition
// before the window's own UI build step. Only a registry-level enumeration
// fault fails construction.
func New(ctx context.Context, engine *extension.Engine, scope string, opts ...Option) (*Window, error) {
	w := &Window{
		scope:  scope,
		title:  "Hausbuch",
		status: "Bereit",
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	units, err := engine.LoadPlugins(ctx, MenuKind, scope)
	if err != nil {
		return nil, err
	}

	for _, unit := range units {
		contributor, ok := unit.Contributor()
		if !ok {
			w.logger.Debug("extension exposes no menu capability", "id", unit.Name.ID())
			continue
		}

		items, err := contributor.ContributeMenu(ctx, w)
		if err != nil {
			errutil.LogWarn(w.logger, "extension contribution failed", err)
			continue
		}
		if err := menu.ValidateAll(items); err != nil {
			errutil.LogWarn(w.logger, "extension returned invalid menu items",
				oops.In("window").With("id", unit.Name.ID()).Wrap(err))
			continue
		}

		w.mu.Lock()
		w.menuBar = append(w.menuBar, items...)
		w.mu.Unlock()
	}

	return w, nil
}

// Scope returns the window's extension scope.
func (w *Window) Scope() string {
	return w.scope
}

// Title returns the window title.
func (w *Window) Title() string {
	return w.title
}

// MenuBar returns a copy of the composed menu-bar model.
func (w *Window) MenuBar() []menu.Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]menu.Item, len(w.menuBar))
	copy(out, w.menuBar)
	return out
}

// ShowMessage records and logs an informational message.
func (w *Window) ShowMessage(msg string) {
	w.mu.Lock()
	w.messages = append(w.messages, msg)
	w.mu.Unlock()
	w.logger.Info("window message", "scope", w.scope, "message", msg)
}

// Messages returns all messages shown so far.
func (w *Window) Messages() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.messages))
	copy(out, w.messages)
	return out
}

// Status returns the status-bar text.
func (w *Window) Status() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Dispatch executes a menu item action. Actions are declarative strings of
// the form <verb>:<argument>.
func (w *Window) Dispatch(action string) error {
	verb, arg, _ := strings.Cut(action, ":")
	switch verb {
	case "message":
		w.ShowMessage(arg)
		return nil
	case "navigate":
		w.mu.Lock()
		w.status = "Ansicht: " + arg
		w.mu.Unlock()
		w.logger.Info("navigate", "scope", w.scope, "target", arg)
		return nil
	default:
		return oops.In("window").
			Code("unknown_action").
			With("action", action).
			New("no handler for menu action")
	}
}
