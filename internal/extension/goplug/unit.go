// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package goplug

import (
	"context"

	"github.com/samber/oops"

	"github.com/hausbuch/hausbuch/pkg/extsdk"
	"github.com/hausbuch/hausbuch/pkg/menu"
)

// Compile-time capability check.
var _ menu.Contributor = (*Unit)(nil)

// Unit is the opaque handle for a running binary extension.
type Unit struct {
	id          string
	contributor extsdk.Contributor
}

// ID returns the unit's extension identifier.
func (u *Unit) ID() string {
	return u.id
}

// ContributeMenu asks the unit's process for its menu items. The context is
// not transported over net/rpc; a hung unit is bounded only by the engine's
// optional load timeout at load time.
func (u *Unit) ContributeMenu(_ context.Context, host menu.Host) ([]menu.Item, error) {
	items, err := u.contributor.Contribute(host.Scope())
	if err != nil {
		return nil, oops.In("goplug").With("id", u.id).With("operation", "contribute").Wrap(err)
	}
	if err := menu.ValidateAll(items); err != nil {
		return nil, oops.In("goplug").With("id", u.id).Hint("unit returned invalid menu items").Wrap(err)
	}
	return items, nil
}
