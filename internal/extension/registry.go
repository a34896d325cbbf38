// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package extension

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// CodeRegistryUnreadable is the error code carried by fatal enumeration
// failures. An unreadable extension root is a deployment fault, not a
// recoverable per-unit one, so it aborts the whole composition call.
const CodeRegistryUnreadable = "registry_unreadable"

// luaExt marks Lua script units.
const luaExt = ".lua"

// internalMarker prefixes files that are never extension units (package
// initialization scripts, editor droppings kept out of scans by convention).
const internalMarker = "_"

// DirSource enumerates extension units under a root directory. The walk is
// depth-first and lexical per directory, which makes the enumeration order a
// stable contract for priority tie-breaking.
type DirSource struct {
	root   string
	ignore []glob.Glob
}

var _ Source = (*DirSource)(nil)

// NewDirSource creates a directory source. Ignore patterns are matched
// against file basenames; an invalid pattern is an error.
func NewDirSource(root string, ignore []string) (*DirSource, error) {
	globs := make([]glob.Glob, 0, len(ignore))
	for _, pat := range ignore {
		g, err := glob.Compile(pat)
		if err != nil {
			return nil, oops.In("extension").With("pattern", pat).Hint("invalid ignore pattern").Wrap(err)
		}
		globs = append(globs, g)
	}
	return &DirSource{root: root, ignore: globs}, nil
}

// Root returns the directory this source scans.
func (s *DirSource) Root() string {
	return s.root
}

// Enumerate walks the extension root and returns one candidate per eligible
// file, in scan order. A missing or unreadable root is fatal.
func (s *DirSource) Enumerate(ctx context.Context) ([]Candidate, error) {
	var cands []Candidate

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return oops.In("extension").
				Code(CodeRegistryUnreadable).
				With("root", s.root).
				With("path", path).
				Hint("extension root must exist and be readable").
				Wrap(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		base := d.Name()
		if strings.HasPrefix(base, internalMarker) {
			return nil
		}
		for _, g := range s.ignore {
			if g.Match(base) {
				return nil
			}
		}

		rt, ok := s.runtimeFor(d, base)
		if !ok {
			return nil
		}
		cands = append(cands, Candidate{
			ID:      strings.TrimSuffix(base, filepath.Ext(base)),
			Path:    path,
			Runtime: rt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cands, nil
}

// runtimeFor classifies a file as a loadable unit. Lua scripts load in
// process; executable files load as go-plugin binaries; everything else is
// silently skipped (non-extension files may share the directory).
func (s *DirSource) runtimeFor(d fs.DirEntry, base string) (Runtime, bool) {
	if strings.EqualFold(filepath.Ext(base), luaExt) {
		return RuntimeLua, true
	}
	info, err := d.Info()
	if err != nil {
		return "", false
	}
	if info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
		return RuntimeBinary, true
	}
	return "", false
}
