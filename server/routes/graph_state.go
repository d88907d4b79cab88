// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/url"
	"slices"
	"strconv"

	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
)

// maxSelections bounds how many dropdown rows one graph may carry.
const maxSelections = 20

// Query parameter names of the price graph. Each selection row contributes
// one value to every list, so the n-th values together form the n-th row.
const (
	paramLine  = "line"
	paramCode  = "code"
	paramCabin = "cabin"
	paramFare  = "fare"

	// The prev_ variants echo what the row held when the page was rendered,
	// so the next request can tell which dropdown was changed.
	paramPrevPrefix = "prev_"

	paramAdd    = "add"
	paramRemove = "remove"
)

// parseSelections rebuilds the selection rows from a graph form submission.
//
// Rows carrying prev_ values are cascaded against them. Rows without (deep
// links, chart and export URLs) are taken as given. The remove and add
// buttons are applied last.
func parseSelections(query url.Values) []cruise.Selection {
	current := selectionsFrom(query, "")
	previous := selectionsFrom(query, paramPrevPrefix)

	selections := make([]cruise.Selection, 0, len(current)+1)

	for i, next := range current {
		if i < len(previous) {
			next = cruise.Cascade(previous[i], next)
		}

		selections = append(selections, next)
	}

	if idx, err := strconv.Atoi(query.Get(paramRemove)); err == nil && idx >= 0 && idx < len(selections) {
		selections = slices.Delete(selections, idx, idx+1)
	}

	if query.Get(paramAdd) != "" {
		selections = append(selections, cruise.Selection{})
	}

	if len(selections) > maxSelections {
		selections = selections[:maxSelections]
	}

	return selections
}

func selectionsFrom(query url.Values, prefix string) []cruise.Selection {
	lines := query[prefix+paramLine]
	codes := query[prefix+paramCode]
	cabins := query[prefix+paramCabin]
	fares := query[prefix+paramFare]

	selections := make([]cruise.Selection, len(lines))
	for i, line := range lines {
		selections[i] = cruise.Selection{
			Line: line,
			Triple: cruise.Triple{
				CruiseCode: valueAt(codes, i),
				CabinType:  valueAt(cabins, i),
				FareType:   valueAt(fares, i),
			},
		}
	}

	return selections
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}

	return ""
}

// sanitizeSelections drops every choice the fetched data does not offer.
// A row naming an unknown cruise line is reset entirely. A row whose line
// returned no data, as after a failed fetch, is kept as chosen.
func sanitizeSelections(selections []cruise.Selection, data map[string][]cruise.Observation) []cruise.Selection {
	sanitized := make([]cruise.Selection, len(selections))

	for i, sel := range selections {
		if _, ok := cruise.LookupLine(sel.Line); !ok {
			continue
		}

		observations := data[sel.Line]
		if len(observations) == 0 {
			sanitized[i] = sel

			continue
		}

		sanitized[i] = cruise.Sanitize(sel, observations)
	}

	return sanitized
}

// encodeSelections writes selections as graph query parameters, without the
// prev_ echo, in row order.
func encodeSelections(selections []cruise.Selection) url.Values {
	query := url.Values{}

	for _, sel := range selections {
		query.Add(paramLine, sel.Line)
		query.Add(paramCode, sel.CruiseCode)
		query.Add(paramCabin, sel.CabinType)
		query.Add(paramFare, sel.FareType)
	}

	return query
}

// completeSelections keeps the rows that identify a full series.
func completeSelections(selections []cruise.Selection) []cruise.Selection {
	var complete []cruise.Selection

	for _, sel := range selections {
		if sel.Line != "" && sel.Complete() {
			complete = append(complete, sel)
		}
	}

	return complete
}
