// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ParseURL parses an absolute URL for the setting named by label.
//
// Both a scheme and a host are required. A trailing slash on the path is
// dropped so that paths can be joined onto the result without doubling it.
func ParseURL(raw, label string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s URL: %w", label, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf(
			"%s URL is invalid: %q. Please specify a complete URL with scheme and host, e.g. https://prices.example.com",
			label,
			raw)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u, nil
}

// GetQueryParam returns the first value of the query parameter name,
// or the optional fallback when it is missing or empty.
func GetQueryParam(r *http.Request, name string, fallback ...string) string {
	return orFallback(r.URL.Query().Get(name), fallback)
}

// GetFormValue is GetQueryParam for form bodies. A body that fails to parse
// is treated as missing.
func GetFormValue(r *http.Request, name string, fallback ...string) string {
	if err := r.ParseForm(); err != nil {
		return orFallback("", fallback)
	}

	return orFallback(r.FormValue(name), fallback)
}

// GetPathVar returns the wildcard name matched by the ServeMux pattern.
func GetPathVar(r *http.Request, name string, fallback ...string) string {
	return orFallback(r.PathValue(name), fallback)
}

func orFallback(v string, fallback []string) string {
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}

	return v
}

// GetOriginFromURL returns "scheme://host" for u, or "" when either is missing.
func GetOriginFromURL(u url.URL) string {
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// SanitizeReturnPath returns s when it is a path on this origin, and ""
// for anything that could send the user elsewhere.
func SanitizeReturnPath(s string) string {
	s = strings.TrimSpace(s)

	switch {
	case s == "":
		return ""
	case !strings.HasPrefix(s, "/"), strings.HasPrefix(s, "//"), strings.HasPrefix(s, `/\`):
		return ""
	case strings.Contains(s, "://"):
		return ""
	}

	return s
}

// ReturnPath is SanitizeReturnPath with "/" in place of rejected values.
func ReturnPath(s string) string {
	if path := SanitizeReturnPath(s); path != "" {
		return path
	}

	return "/"
}
