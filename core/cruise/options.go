// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

import "slices"

// CruiseOptions lists the distinct cruise codes in first-seen order.
func CruiseOptions(observations []Observation) []string {
	return distinct(observations, func(Observation) bool { return true }, func(o Observation) string {
		return o.CruiseCode
	})
}

// CabinOptions lists the cabin types offered on the cruise with the given code.
func CabinOptions(observations []Observation, code string) []string {
	if code == "" {
		return nil
	}

	return distinct(observations, func(o Observation) bool {
		return o.CruiseCode == code
	}, func(o Observation) string {
		return o.CabinType
	})
}

// FareOptions lists the fare types offered for the given cruise and cabin type.
func FareOptions(observations []Observation, code, cabin string) []string {
	if code == "" || cabin == "" {
		return nil
	}

	return distinct(observations, func(o Observation) bool {
		return o.CruiseCode == code && o.CabinType == cabin
	}, func(o Observation) string {
		return o.FareType
	})
}

// Cascade applies the dropdown reset rules to a selection that has just been edited.
//
// Changing the cruise line clears everything after it, changing the cruise clears
// cabin and fare, and changing the cabin clears the fare.
func Cascade(prev, next Selection) Selection {
	switch {
	case next.Line != prev.Line:
		next.CruiseCode, next.CabinType, next.FareType = "", "", ""
	case next.CruiseCode != prev.CruiseCode:
		next.CabinType, next.FareType = "", ""
	case next.CabinType != prev.CabinType:
		next.FareType = ""
	}

	return next
}

// Sanitize clears every choice that is not offered given the choices before it.
// observations must be the data of sel.Line.
func Sanitize(sel Selection, observations []Observation) Selection {
	if !slices.Contains(CruiseOptions(observations), sel.CruiseCode) {
		sel.CruiseCode = ""
	}

	if !slices.Contains(CabinOptions(observations, sel.CruiseCode), sel.CabinType) {
		sel.CabinType = ""
	}

	if !slices.Contains(FareOptions(observations, sel.CruiseCode, sel.CabinType), sel.FareType) {
		sel.FareType = ""
	}

	return sel
}

func distinct(observations []Observation, keep func(Observation) bool, field func(Observation) string) []string {
	seen := make(map[string]struct{})

	var values []string

	for _, obs := range observations {
		if !keep(obs) {
			continue
		}

		value := field(obs)
		if value == "" {
			continue
		}

		if _, ok := seen[value]; ok {
			continue
		}

		seen[value] = struct{}{}
		values = append(values, value)
	}

	return values
}
