// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target   string
		location string // empty when the request passes through
	}{
		{target: "/"},
		{target: "/cruises/po"},
		{target: "/graph?line=po"},
		{target: "/api/v1/lines/"},
		{target: "/cruises/po/", location: "/cruises/po"},
		{target: "/cruises/po/G401/", location: "/cruises/po/G401"},
		{target: "/graph///", location: "/graph"},
		{target: "/graph/?line=po&code=X123", location: "/graph?line=po&code=X123"},
		{target: "//", location: "/"},
		{target: "//evil.example.com/", location: "/evil.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			reached := false
			handler := Wrap(NormalizeURL, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				reached = true

				w.WriteHeader(http.StatusOK)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if tt.location == "" {
				assert.True(t, reached)
				assert.Equal(t, http.StatusOK, rr.Code)

				return
			}

			assert.False(t, reached)
			assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
			assert.Equal(t, tt.location, rr.Header().Get("Location"))
		})
	}
}
