// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context holds the state shared by the middleware, the page
handlers and the views while a single request is served.

It lives apart from the middleware package so that views can import it
without an import cycle.
*/
package request_context

import (
	"context"
	"net/http"

	"codeberg.org/cruisetracker/cruisetracker/core/idgen"
	"codeberg.org/cruisetracker/cruisetracker/server/template/commondata"
)

// RequestContext is mutable: middleware.CatchError records the outcome of
// the handler in it before the request is logged.
type RequestContext struct {
	// RequestID ties together the log lines of a request and of the
	// upstream fetches it caused.
	RequestID string

	// RequestError is the error returned by the page handler, if any.
	// The error page displays it.
	RequestError error

	// StatusCode is the status sent to the browser.
	StatusCode int

	// CommonData feeds the page layout.
	CommonData commondata.PageCommonData
}

type contextKey struct{}

// WithRequestContext returns a child of ctx carrying a fresh RequestContext
// for r.
func WithRequestContext(ctx context.Context, r *http.Request) context.Context {
	rc := &RequestContext{
		RequestID:  idgen.Make(),
		StatusCode: http.StatusOK,
	}
	commondata.PopulatePageCommonData(r, &rc.CommonData)

	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the RequestContext attached to ctx. Outside a request,
// such as in background work or tests, it returns an empty one rather than nil.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(contextKey{}).(*RequestContext); ok {
		return rc
	}

	return &RequestContext{}
}

// FromRequest is FromContext(r.Context()).
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
