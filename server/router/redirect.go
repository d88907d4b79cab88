// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/url"

	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

// redirectWithQueryParam maps a query-style URL, as the upstream API uses,
// onto the dashboard's path-style one:
//
//	/cruises?line=<id>   ->   /cruises/<id>
//
// Other parameters are dropped. Without param the request goes to fallback.
func redirectWithQueryParam(targetPath, param, fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := fallback
		if value := utils.GetQueryParam(r, param); value != "" {
			target = targetPath + url.PathEscape(value)
		}

		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	}
}
