// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/cruisetracker/cruisetracker/server/request_context"
)

// createTestRequest creates a test HTTP request with request context.
func createTestRequest(t *testing.T, target string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)

	return req.WithContext(request_context.WithRequestContext(req.Context(), req))
}

// TestCatchError_Success tests CatchError when handler succeeds.
func TestCatchError_Success(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("X-Test", "kept")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "success"}`))

		return nil
	})
	req := createTestRequest(t, "/test")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"status": "success"}`, rr.Body.String())
	assert.Equal(t, "kept", rr.Header().Get("X-Test"))

	ctx := request_context.FromRequest(req)
	assert.NoError(t, ctx.RequestError)
	assert.Equal(t, http.StatusOK, ctx.StatusCode)
}

// TestCatchError_HandlerError tests CatchError when handler returns an error.
func TestCatchError_HandlerError(t *testing.T) {
	t.Parallel()

	testError := errors.New("test handler error")
	handler := CatchError(func(w http.ResponseWriter, r *http.Request) error {
		_, _ = w.Write([]byte("partial output"))

		return testError
	})
	req := createTestRequest(t, "/test")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "partial output")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	require.NoError(t, err)
	assert.Contains(t, doc.Find("main").Text(), testError.Error())

	ctx := request_context.FromRequest(req)
	assert.ErrorIs(t, ctx.RequestError, testError)
	assert.Equal(t, http.StatusInternalServerError, ctx.StatusCode)
}

// TestCatchError_NotFound checks that a bare 404 is replaced by the error page.
func TestCatchError_NotFound(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, r *http.Request) error {
		http.NotFound(w, r)

		return nil
	})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, createTestRequest(t, "/nowhere"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.NotContains(t, rr.Body.String(), "404 page not found")
	assert.Contains(t, rr.Body.String(), "404")
}

// TestCatchError_HandledError keeps a response that already carries an error status.
func TestCatchError_HandledError(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, r *http.Request) error {
		http.Error(w, "bad selection", http.StatusBadRequest)

		return errors.New("bad selection")
	})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, createTestRequest(t, "/graph"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "bad selection")
}

func TestErrorPageStatus(t *testing.T) {
	t.Parallel()

	failure := errors.New("upstream down")

	tests := []struct {
		name        string
		err         error
		code        int
		wantStatus  int
		wantReplace bool
	}{
		{name: "Unwritten", code: 0, wantStatus: http.StatusOK},
		{name: "Redirect", code: http.StatusSeeOther, wantStatus: http.StatusSeeOther},
		{name: "NotFound", code: http.StatusNotFound, wantStatus: http.StatusNotFound, wantReplace: true},
		{name: "NotFoundWithError", err: failure, code: http.StatusNotFound, wantStatus: http.StatusNotFound, wantReplace: true},
		{name: "ErrorWithoutStatus", err: failure, code: http.StatusOK, wantStatus: http.StatusInternalServerError, wantReplace: true},
		{name: "HandledBadRequest", err: failure, code: http.StatusBadRequest, wantStatus: http.StatusBadRequest},
		{name: "TooManyRequests", code: http.StatusTooManyRequests, wantStatus: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, replace := errorPageStatus(tt.err, tt.code)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantReplace, replace)
		})
	}
}
