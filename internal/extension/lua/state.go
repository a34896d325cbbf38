// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

// Package lua provides a sandboxed Lua runtime for extension units.
package lua

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// safeLibrary represents a Lua library that is safe to load in a sandboxed
// state.
type safeLibrary struct {
	name string
	fn   lua.LGFunction
}

// defaultSafeLibraries returns the list of libraries safe to load.
// Safe: base, table, string, math.
// Blocked: os, io, debug, package.
func defaultSafeLibraries() []safeLibrary {
	return []safeLibrary{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// stateFactory creates sandboxed Lua states with only safe libraries.
type stateFactory struct {
	libraries []safeLibrary
}

func newStateFactory() *stateFactory {
	return &stateFactory{
		libraries: defaultSafeLibraries(),
	}
}

// unsafeBaseFunctions lists base library functions that must be blocked.
// They allow filesystem access which would break sandboxing.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load"}

// NewState creates a fresh Lua state with only safe libraries loaded and
// the context attached for cancellation.
func (f *stateFactory) NewState(ctx context.Context) (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	for _, lib := range f.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("failed to open library %s: %w", lib.name, err)
		}
	}

	for _, fn := range unsafeBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}

	L.SetContext(ctx)
	return L, nil
}
