// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

var (
	errUnknownLine   = errors.New("unknown cruise line")
	errUnknownCruise = errors.New("cruise is not tracked")
)

// setPublicCacheControl lets browsers and shared caches keep a page for the
// configured HTTP cache lifetime.
func setPublicCacheControl(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(config.Global.HTTPCache.MaxAge.Seconds()),
		int(config.Global.HTTPCache.StaleWhileRevalidate.Seconds())))
}

// lineFromPath resolves the {line} path variable.
//
// An unknown line writes a 404 status and returns an error for CatchError to render.
func lineFromPath(w http.ResponseWriter, r *http.Request) (cruise.Line, error) {
	id := utils.GetPathVar(r, "line")

	line, ok := cruise.LookupLine(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return cruise.Line{}, fmt.Errorf("%w: %q", errUnknownLine, id)
	}

	return line, nil
}

// observationsOrEmpty fetches a line, degrading to no observations when the upstream fails.
func observationsOrEmpty(r *http.Request, line cruise.Line) []cruise.Observation {
	obs, err := cruise.FetchLine(r, line)
	if err != nil {
		cruise.LogFetchError(r, line.ID, err)

		return nil
	}

	return obs
}
