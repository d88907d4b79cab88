// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package chart

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
)

func price(v float64) *float64 {
	return &v
}

func TestColorFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#df1212", ColorFor(0))
	assert.Equal(t, "#1212df", ColorFor(1))
	assert.Equal(t, "#df12a6", ColorFor(9))
	assert.Equal(t, "#df1212", ColorFor(10), "the palette cycles")
	assert.Equal(t, ColorFor(3), ColorFor(-3))
}

func TestRenderPriceChart(t *testing.T) {
	t.Parallel()

	table := cruise.Table{
		Series: []cruise.Series{
			{Label: "G401 - Fjords"},
			{Label: "P512 - Caribbean"},
		},
		Rows: []cruise.Row{
			{Date: cruise.ParseCheckDate("01/02/2025"), Prices: []*float64{price(1349), nil}},
			{Date: cruise.ParseCheckDate("02/02/2025"), Prices: []*float64{price(1299), price(4999)}},
		},
	}

	cfg := ChartConfig{
		Title:      "Price History",
		XAxisLabel: "Date Checked",
		YAxisLabel: "Total Price",
		Width:      "100%",
		Height:     "400px",
		AssetsHost: "https://assets.example.com/echarts/",
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPriceChart(&buf, table, cfg))

	out := buf.String()
	assert.Contains(t, out, "https://assets.example.com/echarts/echarts.min.js")
	assert.Contains(t, out, "<title>Price History</title>")
	assert.Contains(t, out, "G401 - Fjords")
	assert.Contains(t, out, "P512 - Caribbean")
	assert.Contains(t, out, "01/02/2025")
	assert.Contains(t, out, "Date Checked")
	assert.Contains(t, out, "#df1212")
	assert.Contains(t, out, "#1212df")
	assert.Contains(t, out, `"connectNulls":true`)
	assert.Contains(t, out, `"step":"end"`)
}

func TestRenderEmptyChart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderPriceChart(&buf, cruise.Table{}, ChartConfig{AssetsHost: "https://assets.example.com/"}))
	assert.Contains(t, buf.String(), "echarts.min.js")
}

var itemColor = regexp.MustCompile(`"itemStyle":\{"color":"(#[0-9a-f]{6})"`)

func TestRenderPriceChartSeriesColors(t *testing.T) {
	t.Parallel()

	table := cruise.Table{
		Series: []cruise.Series{{Label: "G401"}, {Label: "P512"}, {Label: "K123"}},
		Rows: []cruise.Row{
			{Date: cruise.ParseCheckDate("01/02/2025"), Prices: []*float64{price(1349), price(999), price(2100)}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPriceChart(&buf, table, ChartConfig{AssetsHost: "https://assets.example.com/"}))

	var colors []string
	for _, match := range itemColor.FindAllStringSubmatch(buf.String(), -1) {
		colors = append(colors, match[1])
	}

	// Each line keeps its own colour, matching the legend on the graph page.
	assert.Equal(t, []string{ColorFor(0), ColorFor(1), ColorFor(2)}, colors)
}
