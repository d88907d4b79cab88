// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short identifiers for correlating log lines.
//
// IDs are not unique across days; they only need to tell apart the
// requests in flight around the same log line.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

const (
	// timeLayout is hhmmss of the server's local time.
	timeLayout   = "150405"
	entropyBytes = 3

	// Length is the length of every ID returned by Make.
	Length = len(timeLayout) + (entropyBytes*8+5)/6
)

// Make returns an ID starting with the current time of day.
func Make() string {
	return MakeAt(time.Now())
}

// MakeAt is Make for a fixed time.
func MakeAt(t time.Time) string {
	var entropy [entropyBytes]byte

	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(entropy[:])

	return t.Format(timeLayout) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

// Child makes an ID for work done on behalf of parent,
// such as an upstream fetch made while serving a page.
func Child(parent string) string {
	if parent == "" {
		return Make()
	}

	return parent + "-" + Make()
}
