// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package requests performs GET requests against the cruise price API,
// with auditing and a shared response cache.
package requests

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/audit"
	"codeberg.org/cruisetracker/cruisetracker/core/idgen"
	"codeberg.org/cruisetracker/cruisetracker/server/request_context"
)

// maxErrorBodyLength bounds how much of an invalid body ends up in an error message.
const maxErrorBodyLength = 256

// GetJSON fetches url and returns its body once it is known to be valid JSON.
//
// incoming holds the headers of the browser request being served, if any;
// only its Cache-Control directives are looked at. Error statuses are
// returned as *APIError.
func GetJSON(ctx context.Context, url string, incoming http.Header) ([]byte, error) {
	mode := cacheModeFor(incoming)

	if body, ok := mode.load(url); ok {
		logCacheHit(ctx, url, body)

		return body, nil
	}

	status, body, err := fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if status >= http.StatusBadRequest {
		return nil, &APIError{
			StatusCode: status,
			Message:    errorMessage(status, body),
			Err:        errAPIResponseError,
		}
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s", errInvalidJSON, truncate(body))
	}

	if status == http.StatusOK {
		mode.store(url, body)
	}

	return body, nil
}

// IsContextCanceled reports whether err comes from a canceled or expired context.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// fetch sends one GET to the upstream under the configured timeout and
// reads the whole body. The exchange is logged as an audit span.
func fetch(ctx context.Context, url string) (_ int, _ []byte, err error) {
	if timeout := config.Global.Request.Timeout; timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	span := audit.Span{
		Destination: audit.ToUpstream,
		RequestID:   idgen.Child(request_context.FromContext(ctx).RequestID),
		Method:      http.MethodGet,
		URL:         url,
	}

	_ = span.Begin(ctx)

	defer func() {
		span.Error = err
		span.End()
		span.Log()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", config.Global.Request.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.Body = body

	return resp.StatusCode, body, nil
}

// errorMessage extracts a message from an error response body.
//
// The Flask server answers failures with {"error": "..."}; proxies in
// front of it may use "message" or send HTML.
func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		result := gjson.ParseBytes(body)

		for _, field := range []string{"error", "message"} {
			if value := result.Get(field); value.Type == gjson.String && value.String() != "" {
				return value.String()
			}
		}
	}

	if text := http.StatusText(status); text != "" {
		return text
	}

	return "An unknown API error occurred"
}

func logCacheHit(ctx context.Context, url string, body []byte) {
	span := audit.Span{
		Destination: audit.ToUpstream,
		RequestID:   idgen.Child(request_context.FromContext(ctx).RequestID),
		Method:      http.MethodGet,
		URL:         url,
		StatusCode:  http.StatusOK,
		Body:        body,
		Cached:      true,
	}

	_ = span.Begin(ctx)
	span.End()
	span.Log()
}

func truncate(body []byte) string {
	if len(body) <= maxErrorBodyLength {
		return string(body)
	}

	return string(body[:maxErrorBodyLength]) + "..."
}
