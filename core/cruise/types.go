// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

import "codeberg.org/cruisetracker/cruisetracker/config"

// Line is a cruise line whose observations are served from its own upstream path.
type Line = config.CruiseLine

// Observation is a single priced snapshot of a cabin/fare on a given check date
// for a given cruise, as returned by the upstream API.
//
// Observations are never modified after decoding.
type Observation struct {
	CruiseCode    string `json:"cruise_code"`
	CruiseName    string `json:"cruise_name"`
	ShipName      string `json:"ship_name"`
	DeparturePort string `json:"departure_port"`
	DepartureDate string `json:"departure_date"`

	// Duration is kept as text: the trackers write a night count but fall back to "N/A".
	Duration string `json:"duration"`

	CabinType   string `json:"cabin_type"`
	FareType    string `json:"fare_type"`
	DateChecked string `json:"date_checked"`

	// TotalPrice is nil when the upstream sent null or omitted it.
	TotalPrice *float64 `json:"total_price"`

	// Price breakdown columns. Only some trackers fill them in.
	CabinPrice  *float64 `json:"cabin_price,omitempty"`
	FixedOBC    *float64 `json:"fixed_obc,omitempty"`
	BonusOBC    *float64 `json:"bonus_obc,omitempty"`
	DrinksPrice *float64 `json:"drinks_price,omitempty"`
}

// Triple identifies one price time series within a cruise line's data.
type Triple struct {
	CruiseCode string `json:"cruise_code"`
	CabinType  string `json:"cabin_type"`
	FareType   string `json:"fare_type"`
}

// Complete reports whether every component of the triple has been chosen.
func (t Triple) Complete() bool {
	return t.CruiseCode != "" && t.CabinType != "" && t.FareType != ""
}

// Matches reports whether obs belongs to the series identified by t.
func (t Triple) Matches(obs Observation) bool {
	return obs.CruiseCode == t.CruiseCode &&
		obs.CabinType == t.CabinType &&
		obs.FareType == t.FareType
}

// Selection is one row of cascading dropdowns on the price graph:
// a cruise line followed by a triple drawn from that line's data.
type Selection struct {
	Line string `json:"line"`
	Triple
}

// Series describes one column of a pivot Table.
type Series struct {
	Selection

	// Label is the legend text, "<code> – <name>" when the name is known.
	Label string `json:"label"`
}

// Row holds the prices of every series observed on one check date.
//
// Prices is aligned with Table.Series; a nil entry means the series
// has no priced observation on that date.
type Row struct {
	Date   CheckDate  `json:"date"`
	Prices []*float64 `json:"prices"`
}

// Table is a date-indexed pivot of one or more price series.
type Table struct {
	Series []Series `json:"series"`
	Rows   []Row    `json:"rows"`
}

// Empty reports whether the table has nothing to chart.
func (t Table) Empty() bool {
	return len(t.Series) == 0 || len(t.Rows) == 0
}
