// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
	"codeberg.org/cruisetracker/cruisetracker/core/requests"
	"codeberg.org/cruisetracker/cruisetracker/server/request_context"
	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

// RefreshPOST drops cached upstream responses, so the next page view fetches
// fresh prices, then sends the user back where they came from.
//
// A "line" form value limits the refresh to that cruise line's responses.
func RefreshPOST(w http.ResponseWriter, r *http.Request) error {
	logger := log.With().
		Str("request_id", request_context.FromRequest(r).RequestID).
		Logger()

	if id := utils.GetFormValue(r, "line"); id != "" {
		line, ok := cruise.LookupLine(id)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)

			return fmt.Errorf("%w: %q", errUnknownLine, id)
		}

		count, urls := requests.InvalidateURLs([]string{config.Global.UpstreamURL(line.Path)})

		logger.Info().
			Str("line", line.ID).
			Int("count", count).
			Strs("urls", urls).
			Msg("Invalidated cached upstream responses")
	} else {
		logger.Info().
			Int("count", requests.PurgeCache()).
			Msg("Purged cached upstream responses")
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, utils.ReturnPath(utils.GetFormValue(r, "return_path")), http.StatusSeeOther)

	return nil
}
