// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/cruisetracker/cruisetracker/assets/views"
	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

// AboutPage is the handler for the /about page.
func AboutPage(w http.ResponseWriter, r *http.Request) error {
	setPublicCacheControl(w)

	pageData := views.AboutData{
		Title:        "About",
		Version:      config.BuildVersion,
		Revision:     config.Global.Build.Revision(),
		Time:         config.Global.Instance.StartingTime,
		Upstream:     config.Global.Upstream.BaseURL.String(),
		Lines:        config.Global.Upstream.Lines,
		Timeout:      config.Global.Request.Timeout,
		CacheEnabled: config.Global.Cache.Enabled,
		CacheTTL:     config.Global.Cache.TTL,
		CacheSize:    config.Global.Cache.Size,
		ReturnPath:   utils.ReturnPath(utils.GetQueryParam(r, "return_path")),
	}

	return views.About(pageData).Render(r.Context(), w)
}
