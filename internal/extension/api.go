// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package extension

import (
	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
)

// APIVersion is the host API version offered to extension units. Units may
// declare a semver constraint (requires_api) that is checked at load time.
const APIVersion = "1.0.0"

// hostVersion is parsed once; APIVersion is a compile-time constant.
var hostVersion = semver.MustParse(APIVersion)

// CheckAPIConstraint verifies a unit's host-API constraint against
// APIVersion. An empty constraint always passes.
func CheckAPIConstraint(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return oops.In("extension").
			Code("api_constraint_invalid").
			With("constraint", constraint).
			Hint("requires_api must be a valid semver constraint").
			Wrap(err)
	}
	if !c.Check(hostVersion) {
		return oops.In("extension").
			Code("api_incompatible").
			With("constraint", constraint).
			With("host_api", APIVersion).
			New("unit requires an incompatible host API version")
	}
	return nil
}
