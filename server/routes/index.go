// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"codeberg.org/cruisetracker/cruisetracker/assets/views"
	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
	"codeberg.org/cruisetracker/cruisetracker/server/template"
	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

// IndexPage is the route handler for the landing page.
//
// ?show=1 reveals every tracked cruise and ?tab=<line> opens a cruise line tab.
// Both sections load concurrently and fall back to their empty state on failure.
func IndexPage(w http.ResponseWriter, r *http.Request) error {
	showAll := utils.GetQueryParam(r, "show") == "1"
	tab := utils.GetQueryParam(r, "tab")
	uri := r.URL.RequestURI()

	pageData := views.IndexData{
		Title:      "Cruises",
		ShowAll:    showAll,
		ToggleHref: template.ToggleQuery(uri, "show", "1"),
	}

	for _, line := range cruise.Lines() {
		active := line.ID == tab
		if active {
			pageData.ActiveLine = &line
		}

		pageData.Tabs = append(pageData.Tabs, views.LineTab{
			Line:   line,
			Href:   template.ToggleQuery(uri, "tab", line.ID),
			Active: active,
		})
	}

	var g errgroup.Group

	if showAll {
		g.Go(func() error {
			all, err := cruise.FetchAll(r)
			if err != nil {
				cruise.LogFetchError(r, "all", err)

				return nil
			}

			pageData.AllCruises = cruise.UniqueByCode(all)

			return nil
		})
	}

	if pageData.ActiveLine != nil {
		g.Go(func() error {
			pageData.TabCruises = cruise.UniqueByCode(observationsOrEmpty(r, *pageData.ActiveLine))

			return nil
		})
	}

	_ = g.Wait()

	setPublicCacheControl(w)

	return views.Index(pageData).Render(r.Context(), w)
}
