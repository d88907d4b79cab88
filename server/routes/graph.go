// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"codeberg.org/cruisetracker/cruisetracker/assets/views"
	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/chart"
	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
)

// unknownCruiseName stands in for a cruise code without a name in the dropdowns.
const unknownCruiseName = "Unknown"

// GraphPage is the route handler for the price graph.
//
// Every dropdown change reloads the page: the selections are cascaded,
// sanitized against the fetched data and pivoted into the chart and legend.
func GraphPage(w http.ResponseWriter, r *http.Request) error {
	selections := parseSelections(r.URL.Query())

	var data map[string][]cruise.Observation
	if len(selections) > 0 {
		data = cruise.FetchLines(r, cruise.Lines())
	}

	selections = sanitizeSelections(selections, data)
	names := cruiseNames(data)

	pageData := views.GraphData{
		Title:       "Price Graph",
		Rows:        make([]views.SelectionRow, len(selections)),
		ChartHeight: config.Global.Chart.Height,
	}

	for i, sel := range selections {
		pageData.Rows[i] = selectionRow(i, sel, data[sel.Line], names)
	}

	table := cruise.PivotSelections(data, selections)
	if !table.Empty() {
		query := encodeSelections(completeSelections(selections)).Encode()

		pageData.ChartHref = "/graph/chart?" + query
		pageData.ExportHref = "/graph/export.csv?" + query

		for i, series := range table.Series {
			pageData.Legend = append(pageData.Legend, views.LegendEntry{
				Label: series.Label,
				Color: chart.ColorFor(i),
			})
		}
	}

	w.Header().Set("Cache-Control", "no-store")

	return views.Graph(pageData).Render(r.Context(), w)
}

// ChartPage renders the ECharts document framed by the price graph.
func ChartPage(w http.ResponseWriter, r *http.Request) error {
	table := graphTable(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	setPublicCacheControl(w)

	return chart.RenderPriceChart(w, table, chart.DefaultChartConfig())
}

// ExportCSV writes the pivot behind the price graph as CSV: the check date
// followed by one column per series, empty where a series has no price.
func ExportCSV(w http.ResponseWriter, r *http.Request) error {
	table := graphTable(r)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="price-history.csv"`)
	w.Header().Set("Cache-Control", "no-store")

	writer := csv.NewWriter(w)

	header := make([]string, 0, len(table.Series)+1)
	header = append(header, "Date Checked")

	for _, series := range table.Series {
		header = append(header, fmt.Sprintf("%s (%s, %s)", series.Label, series.CabinType, series.FareType))
	}

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range table.Rows {
		record := make([]string, 0, len(row.Prices)+1)
		record = append(record, row.Date.String())

		for _, price := range row.Prices {
			if price == nil {
				record = append(record, "")
			} else {
				record = append(record, strconv.FormatFloat(*price, 'f', -1, 64))
			}
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// graphTable pivots the complete selections named in the query string.
func graphTable(r *http.Request) cruise.Table {
	selections := completeSelections(parseSelections(r.URL.Query()))
	if len(selections) == 0 {
		return cruise.Table{}
	}

	return cruise.PivotSelections(cruise.FetchLines(r, cruise.Lines()), selections)
}

// cruiseNames maps cruise codes to names across lines, in configured line order.
func cruiseNames(data map[string][]cruise.Observation) map[string]string {
	lines := cruise.Lines()

	dataSets := make([][]cruise.Observation, 0, len(lines))
	for _, line := range lines {
		dataSets = append(dataSets, data[line.ID])
	}

	return cruise.CruiseNames(dataSets...)
}

func selectionRow(index int, sel cruise.Selection, obs []cruise.Observation, names map[string]string) views.SelectionRow {
	row := views.SelectionRow{Index: index, Selection: sel}

	for _, line := range cruise.Lines() {
		row.Lines = append(row.Lines, views.Option{Value: line.ID, Label: line.Name, Selected: line.ID == sel.Line})
	}

	// Offer the kept choices alone so the next submit carries them through.
	if len(obs) == 0 {
		row.Cruises = keptOption(sel.CruiseCode)
		row.Cabins = keptOption(sel.CabinType)
		row.Fares = keptOption(sel.FareType)

		return row
	}

	for _, code := range cruise.CruiseOptions(obs) {
		name := names[code]
		if name == "" {
			name = unknownCruiseName
		}

		row.Cruises = append(row.Cruises, views.Option{Value: code, Label: code + " – " + name, Selected: code == sel.CruiseCode})
	}

	row.Cabins = plainOptions(cruise.CabinOptions(obs, sel.CruiseCode), sel.CabinType)
	row.Fares = plainOptions(cruise.FareOptions(obs, sel.CruiseCode, sel.CabinType), sel.FareType)

	return row
}

func keptOption(value string) []views.Option {
	if value == "" {
		return nil
	}

	return []views.Option{{Value: value, Label: value, Selected: true}}
}

func plainOptions(values []string, selected string) []views.Option {
	options := make([]views.Option, len(values))
	for i, v := range values {
		options[i] = views.Option{Value: v, Label: v, Selected: v == selected}
	}

	return options
}
