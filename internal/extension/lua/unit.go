// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package lua

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/hausbuch/hausbuch/pkg/menu"
)

// Compile-time capability check.
var _ menu.Contributor = (*Unit)(nil)

// Unit is the opaque handle for a loaded Lua script. It holds the validated
// source; every contribution runs it in a fresh sandboxed state.
type Unit struct {
	id      string
	code    string
	factory *stateFactory
	logger  *slog.Logger
}

// ID returns the unit's extension identifier.
func (u *Unit) ID() string {
	return u.id
}

// ContributeMenu executes the script's contribute(host) entry point and
// decodes the returned descriptor table.
//
// Partial success: descriptor entries that fail validation are logged and
// skipped while valid entries are kept, so one malformed entry never costs
// the unit its whole contribution. The returned error is non-nil only for
// execution-level failures.
func (u *Unit) ContributeMenu(ctx context.Context, host menu.Host) ([]menu.Item, error) {
	L, err := u.factory.NewState(ctx)
	if err != nil {
		return nil, oops.In("lua").With("id", u.id).Hint("failed to create state").Wrap(err)
	}
	defer L.Close()

	if err := L.DoString(u.code); err != nil {
		return nil, oops.In("lua").With("id", u.id).Hint("failed to load code").Wrap(err)
	}

	contribute := L.GetGlobal("contribute")
	if contribute.Type() == lua.LTNil {
		u.logger.Debug("extension defines no contribute entry point", "id", u.id)
		return nil, nil
	}

	if err := L.CallByParam(lua.P{
		Fn:      contribute,
		NRet:    1,
		Protect: true,
	}, u.buildHostTable(L, host)); err != nil {
		return nil, oops.In("lua").With("id", u.id).With("operation", "contribute").Wrap(err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	items, validationErrs := u.parseItems(ret)
	if len(validationErrs) > 0 {
		u.logger.Warn("extension returned invalid menu descriptors",
			"id", u.id,
			"error_count", len(validationErrs),
			"errors", validationErrs)
	}
	return items, nil
}

// buildHostTable exposes the window surface to the script: the scope tag
// and a show_message host function.
func (u *Unit) buildHostTable(state *lua.LState, host menu.Host) *lua.LTable {
	t := state.NewTable()
	state.SetField(t, "scope", lua.LString(host.Scope()))
	state.SetField(t, "show_message", state.NewFunction(func(L *lua.LState) int {
		host.ShowMessage(L.CheckString(1))
		return 0
	}))
	return t
}

// parseItems decodes the value returned by contribute into menu items.
// Each entry is schema-checked before decoding.
func (u *Unit) parseItems(ret lua.LValue) (items []menu.Item, validationErrs []string) {
	if ret.Type() == lua.LTNil {
		return nil, nil
	}

	table, ok := ret.(*lua.LTable)
	if !ok {
		return nil, []string{"returned non-table value: " + ret.Type().String()}
	}

	index := 0
	table.ForEach(func(_, v lua.LValue) {
		index++

		raw := luaToAny(v)
		entry, ok := raw.(map[string]any)
		if !ok {
			validationErrs = append(validationErrs,
				fmt.Sprintf("entry[%d]: expected table, got %s", index, v.Type().String()))
			return
		}

		if err := menu.ValidateDescriptor(entry); err != nil {
			validationErrs = append(validationErrs,
				fmt.Sprintf("entry[%d]: %v", index, err))
			return
		}

		item := decodeItem(entry)
		if err := item.Validate(); err != nil {
			validationErrs = append(validationErrs,
				fmt.Sprintf("entry[%d]: %v", index, err))
			return
		}
		items = append(items, item)
	})

	return items, validationErrs
}

// decodeItem maps a schema-valid descriptor to a menu.Item.
func decodeItem(entry map[string]any) menu.Item {
	item := menu.Item{}
	if s, ok := entry["label"].(string); ok {
		item.Label = s
	}
	if s, ok := entry["action"].(string); ok {
		item.Action = s
	}
	if b, ok := entry["separator"].(bool); ok {
		item.Separator = b
	}
	if children, ok := entry["items"].([]any); ok {
		for _, c := range children {
			if child, ok := c.(map[string]any); ok {
				item.Items = append(item.Items, decodeItem(child))
			}
		}
	}
	return item
}

// luaToAny converts a Lua value into JSON-compatible Go types. Tables with
// only positive integer keys become slices, other tables become maps.
func luaToAny(v lua.LValue) any {
	switch val := v.(type) {
	case *lua.LTable:
		if n := val.Len(); n > 0 {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, luaToAny(val.RawGetInt(i)))
			}
			return out
		}
		out := make(map[string]any)
		val.ForEach(func(k, v lua.LValue) {
			out[k.String()] = luaToAny(v)
		})
		return out
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	default:
		return nil
	}
}
