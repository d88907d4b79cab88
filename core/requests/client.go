// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
)

const (
	// The tracker API is a single host, so the pool only needs one entry per
	// configured line plus the combined listing.
	maxIdleConnsPerHost = 8
	idleConnTimeout     = 90 * time.Second

	tlsSessionCacheSize = 8
	ioBufferSize        = 32 * 1024
)

// client talks to the tracker API.
//
// Responses are negotiated with gzip or zstd and decompressed transparently.
// Per-request deadlines come from config.Global.Request.Timeout via the
// request context, so the client itself has none.
var client = &http.Client{
	Transport: gzhttp.Transport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			ClientSessionCache: tls.NewLRUClientSessionCache(tlsSessionCacheSize),
			MinVersion:         tls.VersionTLS12,
		},
		ForceAttemptHTTP2:   true,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		ReadBufferSize:      ioBufferSize,
		WriteBufferSize:     ioBufferSize,
	}),
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}

		return nil
	},
}

const maxRedirects = 3
