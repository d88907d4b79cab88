// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package template

import (
	"net/url"
)

// WithQuery returns urlStr with key set to value, keeping every other parameter.
// An empty value removes key.
func WithQuery(urlStr, key, value string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		u = &url.URL{Path: urlStr}
	}

	query := u.Query()

	if value == "" {
		query.Del(key)
	} else {
		query.Set(key, value)
	}

	u.RawQuery = query.Encode()

	return u.RequestURI()
}

// ToggleQuery sets key to value unless it already has that value, in which case
// key is removed. It drives the cruise line tabs, where clicking the open tab closes it.
func ToggleQuery(urlStr, key, value string) string {
	u, err := url.Parse(urlStr)
	if err == nil && u.Query().Get(key) == value {
		return WithQuery(urlStr, key, "")
	}

	return WithQuery(urlStr, key, value)
}
