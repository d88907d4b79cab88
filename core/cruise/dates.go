// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

import (
	"strings"
	"time"
)

// DisplayDateLayout is the dd/mm/yyyy form the upstream normalises check dates to.
const DisplayDateLayout = "02/01/2006"

// checkDateLayouts are tried in order when parsing date_checked.
var checkDateLayouts = []string{
	DisplayDateLayout,
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
}

// CheckDate is a parsed date_checked value.
//
// When the raw text matches none of the known layouts, Parsed is false and the
// date is identified by its raw text alone.
type CheckDate struct {
	Raw string `json:"raw"`

	// Day is the calendar day, at midnight UTC.
	Day time.Time `json:"day"`

	// At is the instant checked, in UTC. It equals Day unless HasTime.
	At time.Time `json:"at"`

	Parsed  bool `json:"parsed"`
	HasTime bool `json:"hasTime"`
}

// ParseCheckDate parses s as a calendar day, keeping the time of day when s has one.
func ParseCheckDate(s string) CheckDate {
	raw := strings.TrimSpace(s)

	for _, layout := range checkDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}

		t = t.UTC()
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

		return CheckDate{
			Raw:     raw,
			Day:     day,
			At:      t,
			Parsed:  true,
			HasTime: layout != DisplayDateLayout && layout != time.DateOnly,
		}
	}

	return CheckDate{Raw: raw}
}

// Key identifies a check, so "2025-01-02" and "02/01/2025" share a key while
// two checks at different times of one day do not.
func (d CheckDate) Key() string {
	switch {
	case d.HasTime:
		return "t:" + d.At.Format(time.RFC3339Nano)
	case d.Parsed:
		return "d:" + d.Day.Format(time.DateOnly)
	default:
		return "r:" + d.Raw
	}
}

// Compare orders parsed dates chronologically, before any unparseable ones,
// which sort by their raw text. A bare day sorts before the timed checks of
// that day, so distinct keys never compare equal.
func (d CheckDate) Compare(other CheckDate) int {
	switch {
	case d.Parsed && other.Parsed:
		if c := d.At.Compare(other.At); c != 0 {
			return c
		}

		switch {
		case d.HasTime == other.HasTime:
			return 0
		case d.HasTime:
			return 1
		default:
			return -1
		}
	case d.Parsed:
		return -1
	case other.Parsed:
		return 1
	default:
		return strings.Compare(d.Raw, other.Raw)
	}
}

// Before reports whether d sorts strictly before other.
func (d CheckDate) Before(other CheckDate) bool {
	return d.Compare(other) < 0
}

// String formats the date the way the dashboard displays it.
func (d CheckDate) String() string {
	switch {
	case d.HasTime:
		return d.At.Format(DisplayDateLayout + " 15:04")
	case d.Parsed:
		return d.Day.Format(DisplayDateLayout)
	}

	return d.Raw
}
