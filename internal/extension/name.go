// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

// Package extension implements discovery, loading, and ordered composition
// of extension units for host windows.
package extension

import "strings"

// Naming convention tokens. An extension identifier is
// plugin_<scope>_<kind>_<name>, split on underscores; anything past the
// third delimiter folds into the name.
const (
	// NamePrefix is the reserved first token of every extension identifier.
	NamePrefix = "plugin"

	// ScopeAll is the universal scope; units carrying it match every
	// requested scope.
	ScopeAll = "all"

	// nameDelimiter separates the identifier tokens.
	nameDelimiter = "_"

	// minNameTokens is the smallest token count a conforming identifier has.
	minNameTokens = 4
)

// DefaultPriority is the sentinel assigned to units that do not declare an
// ordering value. It pushes them after every explicitly ordered unit.
const DefaultPriority = 9999

// ParsedName is the decomposed form of an extension identifier.
type ParsedName struct {
	Prefix string
	Scope  string
	Kind   string
	Name   string
}

// ID reassembles the canonical identifier string.
func (p ParsedName) ID() string {
	return strings.Join([]string{p.Prefix, p.Scope, p.Kind, p.Name}, nameDelimiter)
}

// ParseName decomposes an identifier into its convention tokens. It reports
// false for any identifier with fewer than four tokens or a wrong prefix;
// that is not an error, it marks the identifier as a non-extension file
// co-located in the extension root. Scope and kind values are not validated
// against any enum, keeping the convention open to future kinds.
func ParseName(id string) (ParsedName, bool) {
	parts := strings.Split(id, nameDelimiter)
	if len(parts) < minNameTokens {
		return ParsedName{}, false
	}
	if parts[0] != NamePrefix {
		return ParsedName{}, false
	}
	return ParsedName{
		Prefix: parts[0],
		Scope:  parts[1],
		Kind:   parts[2],
		Name:   strings.Join(parts[3:], nameDelimiter),
	}, true
}
