// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
)

func sel(line, code, cabin, fare string) cruise.Selection {
	return cruise.Selection{
		Line:   line,
		Triple: cruise.Triple{CruiseCode: code, CabinType: cabin, FareType: fare},
	}
}

func TestParseSelections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  []cruise.Selection
	}{
		{
			name:  "Empty",
			query: "",
			want:  []cruise.Selection{},
		},
		{
			name:  "DeepLinkTakenAsGiven",
			query: "line=po&code=G401&cabin=Balcony&fare=Select",
			want:  []cruise.Selection{sel("po", "G401", "Balcony", "Select")},
		},
		{
			name: "LineChangeClearsRow",
			query: "line=princess&code=G401&cabin=Balcony&fare=Select" +
				"&prev_line=po&prev_code=G401&prev_cabin=Balcony&prev_fare=Select",
			want: []cruise.Selection{sel("princess", "", "", "")},
		},
		{
			name: "CruiseChangeClearsCabinAndFare",
			query: "line=po&code=A512&cabin=Balcony&fare=Select" +
				"&prev_line=po&prev_code=G401&prev_cabin=Balcony&prev_fare=Select",
			want: []cruise.Selection{sel("po", "A512", "", "")},
		},
		{
			name: "CabinChangeClearsFare",
			query: "line=po&code=G401&cabin=Inside&fare=Select" +
				"&prev_line=po&prev_code=G401&prev_cabin=Balcony&prev_fare=Select",
			want: []cruise.Selection{sel("po", "G401", "Inside", "")},
		},
		{
			name: "OnlyEditedRowCascades",
			query: "line=po&code=G401&cabin=Balcony&fare=Select" +
				"&line=po&code=A512&cabin=Suite&fare=Select" +
				"&prev_line=po&prev_code=G401&prev_cabin=Balcony&prev_fare=Select" +
				"&prev_line=po&prev_code=G401&prev_cabin=Suite&prev_fare=Select",
			want: []cruise.Selection{
				sel("po", "G401", "Balcony", "Select"),
				sel("po", "A512", "", ""),
			},
		},
		{
			name:  "AddAppendsBlankRow",
			query: "line=po&code=G401&cabin=Balcony&fare=Select&add=1",
			want:  []cruise.Selection{sel("po", "G401", "Balcony", "Select"), {}},
		},
		{
			name:  "AddToNothing",
			query: "add=1",
			want:  []cruise.Selection{{}},
		},
		{
			name:  "RemoveDropsRow",
			query: "line=po&code=G401&cabin=Balcony&fare=Select&line=princess&code=K123&cabin=Inside&fare=Select&remove=0",
			want:  []cruise.Selection{sel("princess", "K123", "Inside", "Select")},
		},
		{
			name:  "RemoveOutOfRangeIgnored",
			query: "line=po&code=G401&cabin=Balcony&fare=Select&remove=3",
			want:  []cruise.Selection{sel("po", "G401", "Balcony", "Select")},
		},
		{
			name:  "MissingTrailingValues",
			query: "line=po&line=princess&code=G401",
			want:  []cruise.Selection{sel("po", "G401", "", ""), sel("princess", "", "", "")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			query, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			assert.Equal(t, tt.want, parseSelections(query))
		})
	}
}

func TestParseSelectionsCapped(t *testing.T) {
	t.Parallel()

	query := url.Values{}
	for i := range maxSelections + 5 {
		query.Add(paramLine, "po")
		query.Add(paramCode, "C"+strconv.Itoa(i))
	}

	query.Set(paramAdd, "1")

	assert.Len(t, parseSelections(query), maxSelections)
}

func TestEncodeSelectionsRoundTrip(t *testing.T) {
	t.Parallel()

	selections := []cruise.Selection{
		sel("po", "G401", "Balcony", "Select"),
		sel("princess", "K123", "", ""),
	}

	assert.Equal(t, selections, parseSelections(encodeSelections(selections)))
}

func TestCompleteSelections(t *testing.T) {
	t.Parallel()

	got := completeSelections([]cruise.Selection{
		sel("po", "G401", "Balcony", "Select"),
		sel("po", "G401", "Balcony", ""),
		sel("", "G401", "Balcony", "Select"),
		{},
	})

	assert.Equal(t, []cruise.Selection{sel("po", "G401", "Balcony", "Select")}, got)
}

// Uses setupRoutes for the configured lines, so it does not run in parallel.
func TestSanitizeSelections(t *testing.T) {
	setupRoutes(t)

	poData := []cruise.Observation{
		{CruiseCode: "G401", CabinType: "Balcony", FareType: "Select"},
		{CruiseCode: "G401", CabinType: "Inside", FareType: "Early Saver"},
	}

	tests := []struct {
		name       string
		selections []cruise.Selection
		data       map[string][]cruise.Observation
		want       []cruise.Selection
	}{
		{
			name:       "Offered choices are kept",
			selections: []cruise.Selection{sel("po", "G401", "Balcony", "Select")},
			data:       map[string][]cruise.Observation{"po": poData},
			want:       []cruise.Selection{sel("po", "G401", "Balcony", "Select")},
		},
		{
			name:       "Choices the data lacks are dropped",
			selections: []cruise.Selection{sel("po", "G401", "Suite", "Select")},
			data:       map[string][]cruise.Observation{"po": poData},
			want:       []cruise.Selection{sel("po", "G401", "", "")},
		},
		{
			name:       "Unknown line is reset",
			selections: []cruise.Selection{sel("cunard", "Q101", "Balcony", "Select")},
			data:       map[string][]cruise.Observation{"po": poData},
			want:       []cruise.Selection{{}},
		},
		{
			name: "Line without data keeps its choices",
			selections: []cruise.Selection{
				sel("po", "G401", "Suite", "Select"),
				sel("princess", "K123", "Inside", "Princess Plus"),
			},
			data: map[string][]cruise.Observation{"po": poData, "princess": nil},
			want: []cruise.Selection{
				sel("po", "G401", "", ""),
				sel("princess", "K123", "Inside", "Princess Plus"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeSelections(tt.selections, tt.data))
		})
	}
}
