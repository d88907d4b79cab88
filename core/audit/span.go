// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TrafficDestination tells the two kinds of HTTP traffic apart in logs
// and Server-Timing metrics.
type TrafficDestination string

const (
	// ToUser is a page or API response served by the dashboard.
	ToUser TrafficDestination = "user"

	// ToUpstream is a request to the tracker API.
	ToUpstream TrafficDestination = "upstream"
)

const responseFilePermissions = 0o600

var (
	// SaveResponses writes every fresh upstream body to ResponseDirectory.
	SaveResponses bool

	// ResponseDirectory holds saved bodies, named <request id>.json.
	ResponseDirectory string
)

// Span times one HTTP exchange. Fill in the exported fields, call Begin
// before the exchange, End after it, and Log once the outcome is known.
type Span struct {
	Destination TrafficDestination
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	Error       error

	// Body is the upstream response. It is measured and may be saved,
	// but never logged.
	Body []byte

	// Cached marks upstream responses answered from the response cache.
	Cached bool

	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric
	saved    string
}

// ServerTimingName is destination$method$url, with the URL in unpadded
// base64 so the name stays a valid Server-Timing token.
func (span Span) ServerTimingName() string {
	return string(span.Destination) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

// Begin starts the clock and a runtime/trace task. When ctx carries a
// Server-Timing header, a metric is added to it as well.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "http."+string(span.Destination))

	if header := servertiming.FromContext(ctx); header != nil {
		span.metric = header.NewMetric(span.ServerTimingName())
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops the clock. Only the first call counts.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()
	span.task = nil

	if span.metric != nil {
		span.metric.Duration = span.duration
	}
}

// Log writes the span as one structured line.
//
// Failed exchanges, and upstream answers of 500 or above, are warnings;
// everything else is debug output.
func (span Span) Log() {
	if span.shouldSave() {
		span.save()
	}

	event := log.WithLevel(span.level()).
		Str("sys", "http").
		Str("destination", string(span.Destination)).
		Str("request_id", span.RequestID).
		Str("method", span.Method).
		Str("url", span.URL).
		Int("status_code", span.StatusCode).
		Str("len", humanize.IBytes(uint64(len(span.Body)))).
		Dur("dur", span.duration)

	if span.Cached {
		event.Bool("cached", true)
	}

	if span.saved != "" {
		event.Str("response_filename", span.saved)
	}

	event.Err(span.Error).Send()
}

func (span Span) level() zerolog.Level {
	if span.Error != nil {
		return zerolog.WarnLevel
	}

	if span.Destination == ToUpstream && span.StatusCode >= http.StatusInternalServerError {
		return zerolog.WarnLevel
	}

	return zerolog.DebugLevel
}

func (span Span) shouldSave() bool {
	return SaveResponses && span.Destination == ToUpstream && !span.Cached && len(span.Body) > 0
}

func (span *Span) save() {
	filename := filepath.Join(ResponseDirectory, span.RequestID+".json")

	if err := os.WriteFile(filename, span.Body, responseFilePermissions); err != nil {
		log.Err(err).Str("request_id", span.RequestID).Msg("Failed to save upstream response")

		return
	}

	span.saved = filename
}
