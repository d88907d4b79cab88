// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package template holds the formatting helpers used by page views.
package template

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"codeberg.org/cruisetracker/cruisetracker/core/cruise"
)

// MissingValue is shown in place of an unknown price.
const MissingValue = "—"

// Prices are quoted by UK cruise lines, so formatting follows en-GB.
var pricePrinter = message.NewPrinter(language.BritishEnglish)

// FormatPrice renders a price as whole pounds with thousands separators, e.g. "£1,234".
func FormatPrice(price *float64) string {
	if price == nil || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return MissingValue
	}

	return FormatAmount(*price)
}

// FormatAmount is FormatPrice for a known amount.
func FormatAmount(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return pricePrinter.Sprintf("-£%d", -rounded)
	}

	return pricePrinter.Sprintf("£%d", rounded)
}

// FormatDate renders a check date as dd/mm/yyyy, or its raw text when it could not be parsed.
func FormatDate(date cruise.CheckDate) string {
	if date.Raw == "" && !date.Parsed {
		return MissingValue
	}

	return date.String()
}

// FormatDuration renders a night count. Non-numeric durations such as "N/A" are shown as sent.
func FormatDuration(duration string) string {
	nights, err := strconv.Atoi(strings.TrimSpace(duration))
	if err != nil {
		if duration == "" {
			return MissingValue
		}

		return duration
	}

	if nights == 1 {
		return "1 night"
	}

	return strconv.Itoa(nights) + " nights"
}

// OrMissing returns s, or MissingValue when s is empty.
func OrMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return MissingValue
	}

	return s
}

// NaturalTime formats a time.Time value as a natural language string.
func NaturalTime(date time.Time) string {
	return date.Format("Monday, 2 January 2006, at 3:04 PM")
}

var errOddDictArgs = errors.New("dict expects key/value pairs")

// Dict builds a map from alternating keys and values, for passing several
// values to a partial template.
func Dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errOddDictArgs
	}

	dict := make(map[string]any, len(pairs)/2)

	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}

		dict[key] = pairs[i+1]
	}

	return dict, nil
}
