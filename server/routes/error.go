// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/assets/views"
	"codeberg.org/cruisetracker/cruisetracker/server/request_context"
)

// ErrorPage renders an error page.
//
// The status line has already been written by the caller.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	ctx := request_context.FromRequest(r)

	pageData := views.ErrorData{
		Title:      http.StatusText(ctx.StatusCode),
		Error:      ctx.RequestError,
		StatusCode: ctx.StatusCode,
	}

	if err := views.Error(pageData).Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render error page")
	}
}
