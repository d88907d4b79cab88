// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerTimingName(t *testing.T) {
	t.Parallel()

	span := Span{
		Destination: ToUpstream,
		Method:      "GET",
		URL:         "https://api.test/cruises/po",
	}

	want := "upstream$GET$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
	assert.Equal(t, want, span.ServerTimingName())
}

func TestSpanRecordsMetric(t *testing.T) {
	t.Parallel()

	header := &servertiming.Header{}
	ctx := servertiming.NewContext(context.Background(), header)

	span := Span{Destination: ToUpstream, Method: "GET", URL: "https://api.test/cruises"}
	span.Begin(ctx)
	span.End()
	span.End()

	require.Len(t, header.Metrics, 1)
	assert.Equal(t, span.ServerTimingName(), header.Metrics[0].Name)
	assert.Equal(t, span.duration, header.Metrics[0].Duration)
	assert.Contains(t, header.Metrics[0].Extra, "start")
}

func TestSpanLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		span Span
		want zerolog.Level
	}{
		{"PageServed", Span{Destination: ToUser, StatusCode: http.StatusOK}, zerolog.DebugLevel},
		{"PageNotFound", Span{Destination: ToUser, StatusCode: http.StatusNotFound}, zerolog.DebugLevel},
		{"PageFailed", Span{Destination: ToUser, StatusCode: http.StatusInternalServerError}, zerolog.DebugLevel},
		{"UpstreamOK", Span{Destination: ToUpstream, StatusCode: http.StatusOK}, zerolog.DebugLevel},
		{"UpstreamDown", Span{Destination: ToUpstream, StatusCode: http.StatusBadGateway}, zerolog.WarnLevel},
		{"TransportError", Span{Destination: ToUpstream, Error: errors.New("connection refused")}, zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.span.level())
		})
	}
}

// Mutates SaveResponses, so not parallel.
func TestSpanSavesUpstreamBody(t *testing.T) {
	dir := t.TempDir()

	SaveResponses, ResponseDirectory = true, dir

	t.Cleanup(func() { SaveResponses, ResponseDirectory = false, "" })

	body := []byte(`[{"cruise_code":"G401"}]`)

	Span{Destination: ToUpstream, RequestID: "req1", Body: body}.Log()
	Span{Destination: ToUpstream, RequestID: "cached", Body: body, Cached: true}.Log()
	Span{Destination: ToUser, RequestID: "page", Body: body}.Log()

	saved, err := os.ReadFile(filepath.Join(dir, "req1.json"))
	require.NoError(t, err)
	assert.Equal(t, body, saved)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
