// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"

	"codeberg.org/cruisetracker/cruisetracker/assets/views"
	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

// CruisesPage lists the unique cruises of the line named in the path.
func CruisesPage(w http.ResponseWriter, r *http.Request) error {
	line, err := lineFromPath(w, r)
	if err != nil {
		return err
	}

	setPublicCacheControl(w)

	return views.Cruises(views.CruisesData{
		Title:   line.Name,
		Line:    line,
		Cruises: cruise.UniqueByCode(observationsOrEmpty(r, line)),
	}).Render(r.Context(), w)
}

// CruisePage summarizes the fares of one cruise.
//
// An upstream failure renders the page without fares; a cruise missing from
// a successful fetch is a 404.
func CruisePage(w http.ResponseWriter, r *http.Request) error {
	line, err := lineFromPath(w, r)
	if err != nil {
		return err
	}

	code := utils.GetPathVar(r, "code")

	obs, err := cruise.FetchLine(r, line)
	if err != nil {
		cruise.LogFetchError(r, line.ID, err)
	}

	pageData := views.CruiseData{
		Title:  code,
		Line:   line,
		Cruise: cruise.Observation{CruiseCode: code},
		Fares:  cruise.SummarizeFares(obs, code),
	}

	if len(pageData.Fares) > 0 {
		pageData.Cruise = pageData.Fares[0].Latest
		pageData.Title = cruise.SeriesLabel(code, cruise.CruiseNames(obs))

		first := cruise.Selection{
			Line: line.ID,
			Triple: cruise.Triple{
				CruiseCode: code,
				CabinType:  pageData.Fares[0].CabinType,
				FareType:   pageData.Fares[0].FareType,
			},
		}
		pageData.GraphHref = "/graph?" + encodeSelections([]cruise.Selection{first}).Encode()
	} else if err == nil {
		w.WriteHeader(http.StatusNotFound)

		return fmt.Errorf("%w: %q on %s", errUnknownCruise, code, line.Name)
	}

	setPublicCacheControl(w)

	return views.Cruise(pageData).Render(r.Context(), w)
}
