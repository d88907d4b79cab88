// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

// UniqueByCode keeps the first observation of every cruise code, preserving input order.
//
// Listing views only show cruise-level fields, so which cabin or fare the kept
// record describes does not matter.
func UniqueByCode(observations []Observation) []Observation {
	seen := make(map[string]struct{}, len(observations))
	unique := make([]Observation, 0)

	for _, obs := range observations {
		if _, ok := seen[obs.CruiseCode]; ok {
			continue
		}

		seen[obs.CruiseCode] = struct{}{}
		unique = append(unique, obs)
	}

	return unique
}

// CruiseNames maps cruise codes to cruise names across every given data set.
// Later data sets win on conflict.
func CruiseNames(dataSets ...[]Observation) map[string]string {
	names := make(map[string]string)

	for _, observations := range dataSets {
		for _, obs := range observations {
			if obs.CruiseName != "" {
				names[obs.CruiseCode] = obs.CruiseName
			}
		}
	}

	return names
}
