// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter rate limits requests per client network.

Every page view may cost a fetch from the tracker API, so clients sharing
an IPv4 /24 or IPv6 /48 (by default) draw from one token bucket. The
buckets can be saved across restarts.
*/
package limiter
