// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

// Run with `go test -tags=integration .`
package main

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	listenAddr = "localhost:8282"
	baseURL    = "http://" + listenAddr

	readyAttempts = 10
	readyInterval = 250 * time.Millisecond
)

// upstreamRecords stands in for both cruise lines and the combined list.
const upstreamRecords = `[
	{"cruise_code":"G401","cruise_name":"Canary Islands","ship_name":"Arvia","departure_port":"Southampton","departure_date":"14/03/2026","duration":"14","cabin_type":"Balcony","fare_type":"Select","date_checked":"01/02/2025","total_price":1299},
	{"cruise_code":"G401","cruise_name":"Canary Islands","ship_name":"Arvia","departure_port":"Southampton","departure_date":"14/03/2026","duration":"14","cabin_type":"Balcony","fare_type":"Select","date_checked":"02/02/2025","total_price":1249}
]`

// noRedirects returns redirects to the test instead of following them.
var noRedirects = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

// TestMain starts a fake price API and the server against it.
func TestMain(m *testing.M) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, upstreamRecords)
	}))

	for key, value := range map[string]string{
		"CRUISETRACKER_UPSTREAM": upstream.URL,
		"CRUISETRACKER_HOST":     "localhost",
		"CRUISETRACKER_PORT":     "8282",
	} {
		_ = os.Setenv(key, value)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)

	go func() { stopped <- run(ctx) }()

	if !serverReady() {
		log.Fatal("server did not start in time")
	}

	code := m.Run()

	cancel()

	if err := <-stopped; err != nil {
		log.Printf("server stopped with error: %v", err)
	}

	upstream.Close()
	os.Exit(code)
}

func serverReady() bool {
	for range readyAttempts {
		if conn, err := net.DialTimeout("tcp", listenAddr, readyInterval); err == nil {
			_ = conn.Close()

			return true
		}

		time.Sleep(readyInterval)
	}

	return false
}

func get(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, baseURL+path, nil)
	require.NoError(t, err)

	resp, err := noRedirects.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/?show=1&tab=po", http.StatusOK, "text/html"},
		{"/cruises", http.StatusPermanentRedirect, ""},
		{"/cruises/po", http.StatusOK, "text/html"},
		{"/cruises/po/G401", http.StatusOK, "text/html"},
		{"/cruises/po/X999", http.StatusNotFound, "text/html"},
		{"/cruises/cunard", http.StatusNotFound, "text/html"},
		{"/graph", http.StatusOK, "text/html"},
		{"/graph?line=po&code=G401&cabin=Balcony&fare=Select", http.StatusOK, "text/html"},
		{"/graph/chart?line=po&code=G401&cabin=Balcony&fare=Select", http.StatusOK, "text/html"},
		{"/graph/export.csv?line=po&code=G401&cabin=Balcony&fare=Select", http.StatusOK, "text/csv"},
		{"/api/v1/lines", http.StatusOK, "application/json"},
		{"/api/v1/pivot?sel=po%7CG401%7CBalcony%7CSelect", http.StatusOK, "application/json"},
		{"/about", http.StatusOK, "text/html"},
		{"/robots.txt", http.StatusOK, "text/plain"},
		{"/css/style.css", http.StatusOK, "text/css"},
		{"/ships", http.StatusNotFound, "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			resp := get(t, tt.path)

			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.contentType != "" {
				assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), tt.contentType),
					"Content-Type %q", resp.Header.Get("Content-Type"))
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	form := url.Values{"return_path": {"/graph"}}

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, baseURL+"/refresh",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := noRedirects.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/graph", resp.Header.Get("Location"))
}
