// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

import (
	"maps"
	"slices"
)

// seriesRecords pairs a series with the observations that belong to it.
type seriesRecords struct {
	series  Series
	records []Observation
}

// Pivot joins the price series of each complete triple into one table with a row
// per distinct check date found among the matching records.
//
// Rows are in chronological order. A cell is nil when its series has no priced
// observation on that date. If several records of a series share a check date, the
// one appearing last in records wins. Incomplete triples are ignored, so passing
// none yields an empty table.
func Pivot(records []Observation, triples []Triple) Table {
	columns := make([]seriesRecords, 0, len(triples))

	for _, triple := range triples {
		if !triple.Complete() {
			continue
		}

		columns = append(columns, seriesRecords{
			series:  Series{Selection: Selection{Triple: triple}, Label: triple.CruiseCode},
			records: Matching(records, triple),
		})
	}

	return pivot(columns)
}

// PivotSelections is Pivot for selections spanning several cruise lines: each
// selection draws its records from data[selection.Line].
func PivotSelections(data map[string][]Observation, selections []Selection) Table {
	dataSets := make([][]Observation, 0, len(data))
	for _, line := range slices.Sorted(maps.Keys(data)) {
		dataSets = append(dataSets, data[line])
	}

	names := CruiseNames(dataSets...)

	columns := make([]seriesRecords, 0, len(selections))

	for _, sel := range selections {
		if sel.Line == "" || !sel.Complete() {
			continue
		}

		columns = append(columns, seriesRecords{
			series:  Series{Selection: sel, Label: SeriesLabel(sel.CruiseCode, names)},
			records: Matching(data[sel.Line], sel.Triple),
		})
	}

	return pivot(columns)
}

// Matching returns the records of the series identified by triple, in input order.
func Matching(records []Observation, triple Triple) []Observation {
	var matched []Observation

	for _, obs := range records {
		if triple.Matches(obs) {
			matched = append(matched, obs)
		}
	}

	return matched
}

// SeriesLabel renders "<code> – <name>", or the bare code when no name is known.
func SeriesLabel(code string, names map[string]string) string {
	if name := names[code]; name != "" {
		return code + " – " + name
	}

	return code
}

func pivot(columns []seriesRecords) Table {
	table := Table{Series: make([]Series, len(columns))}
	rowIndex := make(map[string]int)

	for col, column := range columns {
		table.Series[col] = column.series

		for _, obs := range column.records {
			date := ParseCheckDate(obs.DateChecked)

			idx, ok := rowIndex[date.Key()]
			if !ok {
				idx = len(table.Rows)
				rowIndex[date.Key()] = idx

				table.Rows = append(table.Rows, Row{
					Date:   date,
					Prices: make([]*float64, len(columns)),
				})
			}

			table.Rows[idx].Prices[col] = clonePrice(obs.TotalPrice)
		}
	}

	slices.SortFunc(table.Rows, func(a, b Row) int {
		return a.Date.Compare(b.Date)
	})

	return table
}

func clonePrice(p *float64) *float64 {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
