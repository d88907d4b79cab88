// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/assets/views"
)

// BlockPage renders the page shown when the limiter refuses a request.
//
// The response is never cached, so the page goes away once the client's
// bucket refills.
func BlockPage(w http.ResponseWriter, r *http.Request, reason string, statusCode int) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	page := views.Block(views.BlockData{
		Title:      http.StatusText(statusCode),
		Reason:     reason,
		StatusCode: statusCode,
	})

	if err := page.Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render block page")
	}
}
