// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package chart renders price tables as interactive ECharts documents.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
)

// Palette is the series colour cycle shared by the chart and its legend.
var Palette = []string{
	"#df1212", "#1212df", "#12df12", "#df12df", "#df9e12",
	"#12dfdf", "#df5612", "#5612df", "#12df56", "#df12a6",
}

// missingValue is how ECharts spells an empty data point.
const missingValue = "-"

// ColorFor returns the colour of the i-th series.
func ColorFor(i int) string {
	if i < 0 {
		i = -i
	}

	return Palette[i%len(Palette)]
}

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string // Page title of the chart document
	XAxisLabel string
	YAxisLabel string
	Width      string // Chart width (e.g., "100%")
	Height     string // Chart height (e.g., "400px")
	AssetsHost string // Where echarts.min.js is loaded from; must end in "/"
}

// DefaultChartConfig returns the chart configuration from config.Global.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "Price History",
		XAxisLabel: "Date Checked",
		YAxisLabel: "Total Price (£)",
		Width:      config.Global.Chart.Width,
		Height:     config.Global.Chart.Height,
		AssetsHost: config.Global.Chart.AssetsHost,
	}
}

// RenderPriceChart writes a standalone HTML document plotting every series of
// table against its check dates.
//
// Prices hold until the next check, so lines are drawn as steps. Missing
// cells are bridged rather than breaking the line.
func RenderPriceChart(w io.Writer, table cruise.Table, cfg ChartConfig) error {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  cfg.Title,
			Width:      cfg.Width,
			Height:     cfg.Height,
			AssetsHost: cfg.AssetsHost,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithColorsOpts(opts.Colors(Palette)),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         cfg.XAxisLabel,
			NameLocation: "middle",
			NameGap:      30,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: cfg.YAxisLabel,
			AxisLabel: &opts.AxisLabel{
				Formatter: "£{value}",
			},
		}),
	)

	xLabels := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		xLabels[i] = row.Date.String()
	}

	line.SetXAxis(xLabels)

	for col, series := range table.Series {
		yData := make([]opts.LineData, len(table.Rows))

		for i, row := range table.Rows {
			if price := row.Prices[col]; price != nil {
				yData[i] = opts.LineData{Value: *price}
			} else {
				yData[i] = opts.LineData{Value: missingValue}
			}
		}

		// Options given to AddSeries apply to this series only;
		// SetSeriesOptions would recolour every series added so far.
		color := ColorFor(col)
		line.AddSeries(series.Label, yData,
			charts.WithLineChartOpts(opts.LineChart{
				Step:         "end",
				ConnectNulls: opts.Bool(true),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: color,
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: color,
				Width: 2,
			}),
		)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
