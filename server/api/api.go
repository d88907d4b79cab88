// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package api serves the cruise price data as JSON.

The endpoints mirror what the dashboard pages show: the configured cruise
lines, the unique cruises of a line, the cascading dropdown options and the
pivot behind the price graph. Like the pages, a failed upstream fetch yields
an empty payload rather than an error.
*/
package api

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/audit"
	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
	"codeberg.org/cruisetracker/cruisetracker/server/request_context"
)

// Prefix is the path the API engine is mounted at.
const Prefix = "/api/v1"

// MaxSelections caps the number of series a single pivot request may ask for.
const MaxSelections = 20

var (
	errMalformedSelection = errors.New(`selection must have the form "line|code|cabin|fare"`)
	errTooManySelections  = errors.New("too many selections")
	errUnknownLine        = errors.New("unknown cruise line")
)

var setModeOnce sync.Once

// NewEngine builds the gin engine serving every API route under Prefix.
func NewEngine() *gin.Engine {
	setModeOnce.Do(func() {
		if config.Global.Development.InDevelopment {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	})

	engine := gin.New()
	engine.Use(gin.Recovery(), auditSpan)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	NewHandler().RegisterRoutes(engine.Group(Prefix))

	return engine
}

// Handler holds the API endpoints.
type Handler struct {
	maxSelections int
}

func NewHandler() *Handler {
	return &Handler{maxSelections: MaxSelections}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/lines", h.lines)                 // GET /api/v1/lines
	rg.GET("/lines/:line/cruises", h.cruises) // GET /api/v1/lines/:line/cruises
	rg.GET("/lines/:line/options", h.options) // GET /api/v1/lines/:line/options?code=&cabin=
	rg.GET("/pivot", h.pivot)                 // GET /api/v1/pivot?sel=line|code|cabin|fare
}

type lineItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type cruiseOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type pivotRow struct {
	// Date is an ISO date, or the upstream text when it could not be parsed.
	Date   string     `json:"date"`
	Prices []*float64 `json:"prices"`
}

type pivotResponse struct {
	Series []cruise.Series `json:"series"`
	Rows   []pivotRow      `json:"rows"`
}

func (h *Handler) lines(c *gin.Context) {
	lines := cruise.Lines()

	items := make([]lineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, lineItem{ID: line.ID, Name: line.Name})
	}

	c.JSON(http.StatusOK, gin.H{"lines": items})
}

func (h *Handler) cruises(c *gin.Context) {
	line, ok := lookupLine(c)
	if !ok {
		return
	}

	observations := fetchOrEmpty(c, line)

	c.JSON(http.StatusOK, gin.H{
		"line":    line.ID,
		"cruises": cruise.UniqueByCode(observations),
	})
}

func (h *Handler) options(c *gin.Context) {
	line, ok := lookupLine(c)
	if !ok {
		return
	}

	observations := fetchOrEmpty(c, line)

	sel := cruise.Sanitize(cruise.Selection{
		Line: line.ID,
		Triple: cruise.Triple{
			CruiseCode: c.Query("code"),
			CabinType:  c.Query("cabin"),
		},
	}, observations)

	names := cruise.CruiseNames(observations)
	codes := cruise.CruiseOptions(observations)

	cruises := make([]cruiseOption, 0, len(codes))
	for _, code := range codes {
		cruises = append(cruises, cruiseOption{Code: code, Name: names[code]})
	}

	c.JSON(http.StatusOK, gin.H{
		"line":    line.ID,
		"code":    sel.CruiseCode,
		"cabin":   sel.CabinType,
		"cruises": cruises,
		"cabins":  nonNil(cruise.CabinOptions(observations, sel.CruiseCode)),
		"fares":   nonNil(cruise.FareOptions(observations, sel.CruiseCode, sel.CabinType)),
	})
}

func (h *Handler) pivot(c *gin.Context) {
	raw := c.QueryArray("sel")
	if len(raw) > h.maxSelections {
		abort(c, http.StatusBadRequest, errTooManySelections)

		return
	}

	selections := make([]cruise.Selection, 0, len(raw))
	lines := make([]cruise.Line, 0, len(raw))
	seen := make(map[string]struct{})

	for _, s := range raw {
		sel, err := parseSelection(s)
		if err != nil {
			abort(c, http.StatusBadRequest, err)

			return
		}

		line, ok := cruise.LookupLine(sel.Line)
		if !ok {
			abort(c, http.StatusNotFound, errUnknownLine)

			return
		}

		selections = append(selections, sel)

		if _, ok := seen[line.ID]; !ok {
			seen[line.ID] = struct{}{}
			lines = append(lines, line)
		}
	}

	var data map[string][]cruise.Observation
	if len(lines) > 0 {
		data = cruise.FetchLines(c.Request, lines)
	}

	c.JSON(http.StatusOK, newPivotResponse(cruise.PivotSelections(data, selections)))
}

// parseSelection reads one "line|code|cabin|fare" selection.
// Trailing fields may be empty; such selections are not charted.
func parseSelection(s string) (cruise.Selection, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 || parts[0] == "" {
		return cruise.Selection{}, errMalformedSelection
	}

	return cruise.Selection{
		Line: parts[0],
		Triple: cruise.Triple{
			CruiseCode: parts[1],
			CabinType:  parts[2],
			FareType:   parts[3],
		},
	}, nil
}

func newPivotResponse(table cruise.Table) pivotResponse {
	resp := pivotResponse{
		Series: nonNil(table.Series),
		Rows:   make([]pivotRow, 0, len(table.Rows)),
	}

	for _, row := range table.Rows {
		date := row.Date.Raw

		switch {
		case row.Date.HasTime:
			date = row.Date.At.Format(time.RFC3339)
		case row.Date.Parsed:
			date = row.Date.Day.Format(time.DateOnly)
		}

		resp.Rows = append(resp.Rows, pivotRow{Date: date, Prices: row.Prices})
	}

	return resp
}

func lookupLine(c *gin.Context) (cruise.Line, bool) {
	line, ok := cruise.LookupLine(c.Param("line"))
	if !ok {
		abort(c, http.StatusNotFound, errUnknownLine)
	}

	return line, ok
}

func fetchOrEmpty(c *gin.Context, line cruise.Line) []cruise.Observation {
	observations, err := cruise.FetchLine(c.Request, line)
	if err != nil {
		cruise.LogFetchError(c.Request, line.ID, err)

		return nil
	}

	return observations
}

func abort(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

// auditSpan logs API requests the way middleware.CatchError logs pages.
func auditSpan(c *gin.Context) {
	r := c.Request

	span := audit.Span{
		Destination: audit.ToUser,
		RequestID:   request_context.FromRequest(r).RequestID,
		Method:      r.Method,
		URL:         r.URL.String(),
	}

	_ = span.Begin(r.Context())
	defer span.End()

	c.Next()

	span.StatusCode = c.Writer.Status()
	if err := c.Errors.Last(); err != nil {
		span.Error = err
	}

	if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
		span.Log()
	}
}
