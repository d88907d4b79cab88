// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

func price(v float64) *float64 {
	return &v
}

func obs(code, cabin, fare, date string, total *float64) Observation {
	return Observation{
		CruiseCode:  code,
		CruiseName:  "Cruise " + code,
		CabinType:   cabin,
		FareType:    fare,
		DateChecked: date,
		TotalPrice:  total,
	}
}
