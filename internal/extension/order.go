// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package extension

import "sort"

// SortUnits orders units by ascending priority. The sort is stable: units
// sharing a priority keep the order their sources enumerated them in, so a
// composed menu never flickers between runs.
func SortUnits(units []*LoadedUnit) {
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Priority < units[j].Priority
	})
}
