// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

// Package menu defines the declarative menu model that extension units
// contribute to a host window. Extensions return Item descriptors instead
// of mutating a shared menu widget, so composition stays testable without
// a live UI toolkit.
package menu

import (
	"context"
	"fmt"
)

// Item describes a single menu entry. A top-level Item with nested Items
// renders as a cascade; an Item with Separator set renders as a divider
// and carries no label or action.
type Item struct {
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Action    string `json:"action,omitempty" yaml:"action,omitempty"`
	Separator bool   `json:"separator,omitempty" yaml:"separator,omitempty"`
	Items     []Item `json:"items,omitempty" yaml:"items,omitempty"`
}

// Host is the surface a window exposes to contributing extensions.
type Host interface {
	// Scope returns the window's extension scope (e.g. "homepage").
	Scope() string

	// ShowMessage displays an informational message to the user.
	ShowMessage(msg string)
}

// Contributor is the entry-point capability an extension handle may expose.
// The host window probes for it after composition and invokes it once.
type Contributor interface {
	ContributeMenu(ctx context.Context, host Host) ([]Item, error)
}

// Validate checks structural constraints on an item tree.
func (i Item) Validate() error {
	if i.Separator {
		if i.Label != "" || i.Action != "" || len(i.Items) > 0 {
			return fmt.Errorf("separator item must not carry a label, action, or children")
		}
		return nil
	}
	if i.Label == "" {
		return fmt.Errorf("item label is required")
	}
	if i.Action != "" && len(i.Items) > 0 {
		return fmt.Errorf("item %q cannot have both an action and children", i.Label)
	}
	for n, child := range i.Items {
		if err := child.Validate(); err != nil {
			return fmt.Errorf("item %q child %d: %w", i.Label, n, err)
		}
	}
	return nil
}

// ValidateAll validates a slice of items, reporting the first failure.
func ValidateAll(items []Item) error {
	for n, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", n, err)
		}
	}
	return nil
}
