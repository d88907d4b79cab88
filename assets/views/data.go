// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"time"

	"github.com/a-h/templ"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
)

// LineTab is one cruise line tab on the index page.
type LineTab struct {
	Line   config.CruiseLine
	Href   string
	Active bool
}

type IndexData struct {
	Title string

	// ShowAll reveals the table of every tracked cruise.
	ShowAll    bool
	ToggleHref string
	AllCruises []cruise.Observation

	Tabs []LineTab

	// ActiveLine is the open tab, if any, and TabCruises its unique cruises.
	ActiveLine *config.CruiseLine
	TabCruises []cruise.Observation
}

// Index renders the dashboard landing page.
func Index(data IndexData) templ.Component { return render("index", data) }

type CruisesData struct {
	Title   string
	Line    config.CruiseLine
	Cruises []cruise.Observation
}

// Cruises renders the unique cruises of one line.
func Cruises(data CruisesData) templ.Component { return render("cruises", data) }

type CruiseData struct {
	Title  string
	Line   config.CruiseLine
	Cruise cruise.Observation
	Fares  []cruise.FareSummary

	// GraphHref opens the price graph preloaded with the first fare.
	GraphHref string
}

// Cruise renders the fare summary of one cruise.
func Cruise(data CruiseData) templ.Component { return render("cruise", data) }

// Option is one entry of a dropdown.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// SelectionRow is one row of cascading dropdowns on the price graph.
type SelectionRow struct {
	Index     int
	Selection cruise.Selection
	Lines     []Option
	Cruises   []Option
	Cabins    []Option
	Fares     []Option
}

// LegendEntry pairs a chart series with its colour.
type LegendEntry struct {
	Label string
	Color string
}

type GraphData struct {
	Title string
	Rows  []SelectionRow

	// Empty when there is nothing to chart.
	ChartHref  string
	ExportHref string
	Legend     []LegendEntry

	ChartHeight string
}

// Graph renders the price graph page.
func Graph(data GraphData) templ.Component { return render("graph", data) }

type AboutData struct {
	Title    string
	Version  string
	Revision string
	Time     time.Time
	Upstream string
	Lines    []config.CruiseLine

	Timeout      time.Duration
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheSize    int

	// ReturnPath is where the refresh form sends the user back to.
	ReturnPath string
}

// About renders the instance information page.
func About(data AboutData) templ.Component { return render("about", data) }

type ErrorData struct {
	Title      string
	Error      error
	StatusCode int
}

// Error renders the generic error page.
func Error(data ErrorData) templ.Component { return render("error", data) }

type BlockData struct {
	Title      string
	Reason     string
	StatusCode int
}

// Block renders the page shown to rate limited or blocked clients.
func Block(data BlockData) templ.Component { return render("block", data) }
