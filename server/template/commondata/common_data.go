// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package commondata

import (
	"net/http"
	"strings"

	"codeberg.org/cruisetracker/cruisetracker/config"
)

// NavLink is an entry of the navigation bar.
type NavLink struct {
	Href   string
	Label  string
	Active bool
}

// PageCommonData holds common variables accessible in templates and handlers.
//
// It is automatically populated for each request and attached to the
// request_context.RequestContext.
type PageCommonData struct {
	// CurrentPath is the URL path from request (e.g., "/cruises/po").
	CurrentPath string

	// CurrentPathWithParams is the full request URI including query parameters.
	CurrentPathWithParams string

	// Nav is the navigation bar, with the entry matching CurrentPath marked active.
	Nav []NavLink

	// Version and Revision identify the running build in the footer.
	Version  string
	Revision string

	// RepoURL links to the source code.
	RepoURL string

	// CacheID busts browser caches of static assets across restarts.
	CacheID string
}

var navLinks = []NavLink{
	{Href: "/", Label: "Cruises"},
	{Href: "/graph", Label: "Price Graph"},
	{Href: "/about", Label: "Info"},
}

// PopulatePageCommonData fills the PageCommonData struct from the request.
func PopulatePageCommonData(r *http.Request, data *PageCommonData) {
	data.CurrentPath = r.URL.Path
	data.CurrentPathWithParams = r.URL.RequestURI()

	data.Nav = make([]NavLink, len(navLinks))
	for i, link := range navLinks {
		link.Active = isActive(link.Href, r.URL.Path)
		data.Nav[i] = link
	}

	data.Version = config.BuildVersion
	data.Revision = config.Global.Build.Revision()
	data.RepoURL = config.Global.Instance.RepoURL
	data.CacheID = config.Global.Instance.FileServerCacheID
}

// isActive reports whether path belongs to the section at href.
// The cruise listings live under "/" and "/cruises/".
func isActive(href, path string) bool {
	if href == "/" {
		return path == "/" || strings.HasPrefix(path, "/cruises/")
	}

	return path == href || strings.HasPrefix(path, href+"/")
}
