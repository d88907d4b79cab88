// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/audit"
	"codeberg.org/cruisetracker/cruisetracker/server/request_context"
	"codeberg.org/cruisetracker/cruisetracker/server/routes"
)

// CatchError adapts a handler that returns an error into an http.HandlerFunc.
//
// The handler writes into a buffer. When it fails without setting an error
// status, or sets 404, the buffer is dropped and the themed error page is
// rendered instead; otherwise the buffer is sent as is. Either way the
// request is logged as an audit span once the response is out.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Destination: audit.ToUser,
			RequestID:   ctx.RequestID,
			Method:      r.Method,
			URL:         r.URL.String(),
		}

		_ = span.Begin(r.Context())
		defer span.End()

		buf := httptest.NewRecorder()
		ctx.RequestError = handler(buf, r)

		status, replace := errorPageStatus(ctx.RequestError, buf.Code)
		ctx.StatusCode = status

		if replace {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(status)
			routes.ErrorPage(w, r)
		} else {
			maps.Copy(w.Header(), buf.Header())
			w.WriteHeader(status)

			if _, err := buf.Body.WriteTo(w); err != nil {
				log.Err(err).Str("request_id", ctx.RequestID).Msg("Failed to write response body")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}

// errorPageStatus returns the status to send for a handler that wrote code
// and returned err, and whether its output gives way to the error page.
func errorPageStatus(err error, code int) (int, bool) {
	if code == 0 {
		code = http.StatusOK
	}

	switch {
	case code == http.StatusNotFound:
		return code, true
	case err != nil && code < http.StatusBadRequest:
		return http.StatusInternalServerError, true
	default:
		return code, false
	}
}
