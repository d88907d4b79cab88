// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/requests"
)

// Lines returns the configured cruise lines in display order.
func Lines() []Line {
	return config.Global.Upstream.Lines
}

// LookupLine returns the configured cruise line with the given ID.
func LookupLine(id string) (Line, bool) {
	return config.Global.LookupLine(id)
}

// FetchLine fetches every observation of one cruise line.
func FetchLine(r *http.Request, line Line) ([]Observation, error) {
	return fetch(r, line.Path)
}

// FetchAll fetches the observations of every cruise line from the combined endpoint.
func FetchAll(r *http.Request) ([]Observation, error) {
	return fetch(r, config.Global.Upstream.AllPath)
}

// FetchLines fetches the given cruise lines concurrently and returns their
// observations keyed by line ID.
//
// A line that fails to load is logged and maps to an empty data set,
// so one slow or broken endpoint never hides the others.
func FetchLines(r *http.Request, lines []Line) map[string][]Observation {
	results := make([][]Observation, len(lines))

	var g errgroup.Group

	for i, line := range lines {
		g.Go(func() error {
			obs, err := FetchLine(r, line)
			if err != nil {
				LogFetchError(r, line.ID, err)

				return nil
			}

			results[i] = obs

			return nil
		})
	}

	// Failures are handled per line above.
	_ = g.Wait()

	data := make(map[string][]Observation, len(lines))
	for i, line := range lines {
		data[line.ID] = results[i]
	}

	return data
}

// LogFetchError records a failed upstream fetch.
//
// Fetch failures never reach the user as an error page; views show their
// empty state instead. A browser that went away is not worth a warning.
func LogFetchError(r *http.Request, source string, err error) {
	event := log.Warn()
	if requests.IsContextCanceled(r.Context().Err()) {
		event = log.Debug()
	}

	event.Err(err).
		Str("source", source).
		Str("path", r.URL.Path).
		Msg("Failed to fetch cruise prices")
}

func fetch(r *http.Request, path string) ([]Observation, error) {
	url := config.Global.UpstreamURL(path)

	body, err := requests.GetJSON(r.Context(), url, r.Header)
	if err != nil {
		return nil, err
	}

	obs, err := DecodeObservations(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode observations from %s: %w", url, err)
	}

	return obs, nil
}
