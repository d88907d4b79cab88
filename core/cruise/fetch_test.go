// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/cruisetracker/cruisetracker/config"
)

// These tests replace config.Global, so they do not run in parallel.

func setupUpstream(t *testing.T, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	previous := config.Global

	base, err := url.Parse(server.URL)
	require.NoError(t, err)

	config.Global.Upstream.BaseURL = *base
	config.Global.Upstream.AllPath = "/cruises"
	config.Global.Upstream.Lines = []config.CruiseLine{
		{ID: "po", Name: "P&O Cruises", Path: "/cruises/po"},
		{ID: "princess", Name: "Princess Cruises", Path: "/cruises/princess"},
	}
	config.Global.Request.Timeout = 2 * time.Second
	config.Global.Cache.Enabled = false

	t.Cleanup(func() { config.Global = previous })
}

func TestFetchLines(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cruises/po", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"cruise_code":"G401","cabin_type":"Balcony","fare_type":"Select","date_checked":"01/02/2025","total_price":1299}]`))
	})
	mux.HandleFunc("/cruises/princess", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database is locked"}`))
	})
	setupUpstream(t, mux)

	r := httptest.NewRequest(http.MethodGet, "/graph", nil)

	data := FetchLines(r, Lines())

	require.Len(t, data, 2)
	require.Len(t, data["po"], 1)
	assert.Equal(t, "G401", data["po"][0].CruiseCode)
	assert.Empty(t, data["princess"], "a failing line degrades to no data")
}

func TestFetchAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cruises", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"cruise_code":"G401"},{"cruise_code":"P512"}]`))
	})
	setupUpstream(t, mux)

	got, err := FetchAll(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFetchLineInvalidPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cruises/po", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rows":[]}`))
	})
	setupUpstream(t, mux)

	line, ok := LookupLine("po")
	require.True(t, ok)

	_, err := FetchLine(httptest.NewRequest(http.MethodGet, "/", nil), line)
	assert.ErrorIs(t, err, errNotAnArray)
}

func TestLookupLineUnknown(t *testing.T) {
	setupUpstream(t, http.NotFoundHandler())

	_, ok := LookupLine("cunard")
	assert.False(t, ok)
}
