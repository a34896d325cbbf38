// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package extension

// Matches reports whether a parsed name qualifies for a composition request.
// The kind must match exactly; the scope matches exactly or via ScopeAll.
func Matches(p ParsedName, kind, scope string) bool {
	if p.Kind != kind {
		return false
	}
	return p.Scope == scope || p.Scope == ScopeAll
}
