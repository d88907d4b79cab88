// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"errors"
	"strconv"
)

var (
	errInvalidJSON      = errors.New("response contained invalid JSON")
	errAPIResponseError = errors.New("API response indicated error")
)

// APIError is an error status returned by the upstream.
type APIError struct {
	// StatusCode is always 400 or above.
	StatusCode int

	// Message is the upstream's own explanation, or the status text
	// when the body carried none.
	Message string

	Err error
}

func (e *APIError) Error() string {
	msg := e.Err.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}

	return msg + " (status code: " + strconv.Itoa(e.StatusCode) + ")"
}

func (e *APIError) Unwrap() error {
	return e.Err
}
