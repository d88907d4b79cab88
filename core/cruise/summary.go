// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

// FareSummary condenses the price history of one cabin/fare of a cruise.
type FareSummary struct {
	CabinType string
	FareType  string

	// Checks is the number of observations, priced or not.
	Checks int

	LatestDate   CheckDate
	LatestPrice  *float64
	LowestPrice  *float64
	HighestPrice *float64

	// Breakdown of the latest observation.
	Latest Observation
}

// SummarizeFares groups the observations of the given cruise by cabin and fare type,
// in first-seen order.
//
// The latest observation is the one with the greatest check date; among records
// with the same date the last one wins.
func SummarizeFares(observations []Observation, code string) []FareSummary {
	index := make(map[Triple]int)

	var summaries []FareSummary

	for _, obs := range observations {
		if obs.CruiseCode != code {
			continue
		}

		key := Triple{CruiseCode: obs.CruiseCode, CabinType: obs.CabinType, FareType: obs.FareType}

		idx, ok := index[key]
		if !ok {
			idx = len(summaries)
			index[key] = idx

			summaries = append(summaries, FareSummary{CabinType: obs.CabinType, FareType: obs.FareType})
		}

		summaries[idx].add(obs)
	}

	return summaries
}

func (s *FareSummary) add(obs Observation) {
	date := ParseCheckDate(obs.DateChecked)

	if s.Checks == 0 || !date.Before(s.LatestDate) {
		s.LatestDate = date
		s.LatestPrice = clonePrice(obs.TotalPrice)
		s.Latest = obs
	}

	s.Checks++

	if obs.TotalPrice == nil {
		return
	}

	if s.LowestPrice == nil || *obs.TotalPrice < *s.LowestPrice {
		s.LowestPrice = clonePrice(obs.TotalPrice)
	}

	if s.HighestPrice == nil || *obs.TotalPrice > *s.HighestPrice {
		s.HighestPrice = clonePrice(obs.TotalPrice)
	}
}
