// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	errInvalidJSON = errors.New("response contained invalid JSON")
	errNotAnArray  = errors.New("response is not a JSON array of observations")
)

// DecodeObservations decodes the upstream's JSON array of observation records.
//
// Elements that are not objects are skipped. Durations are accepted as numbers or
// strings, and prices as finite numbers or numeric strings; anything else leaves
// the price nil.
func DecodeObservations(body []byte) ([]Observation, error) {
	if !gjson.ValidBytes(body) {
		return nil, errInvalidJSON
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("%w: got %s", errNotAnArray, result.Type)
	}

	items := result.Array()
	observations := make([]Observation, 0, len(items))

	for _, item := range items {
		if !item.IsObject() {
			continue
		}

		observations = append(observations, Observation{
			CruiseCode:    text(item.Get("cruise_code")),
			CruiseName:    text(item.Get("cruise_name")),
			ShipName:      text(item.Get("ship_name")),
			DeparturePort: text(item.Get("departure_port")),
			DepartureDate: text(item.Get("departure_date")),
			Duration:      text(item.Get("duration")),
			CabinType:     text(item.Get("cabin_type")),
			FareType:      text(item.Get("fare_type")),
			DateChecked:   text(item.Get("date_checked")),
			TotalPrice:    amount(item.Get("total_price")),
			CabinPrice:    amount(item.Get("cabin_price")),
			FixedOBC:      amount(item.Get("fixed_obc")),
			BonusOBC:      amount(item.Get("bonus_obc")),
			DrinksPrice:   amount(item.Get("drinks_price")),
		})
	}

	return observations, nil
}

// text returns the trimmed string form of a scalar, or "" for null and missing fields.
func text(value gjson.Result) string {
	if value.Type == gjson.Null {
		return ""
	}

	return strings.TrimSpace(value.String())
}

func amount(value gjson.Result) *float64 {
	var f float64

	switch value.Type {
	case gjson.Number:
		f = value.Float()
	case gjson.String:
		var err error

		f, err = strconv.ParseFloat(strings.TrimSpace(value.Str), 64)
		if err != nil {
			return nil
		}
	default:
		return nil
	}

	// NaN and infinities cannot be plotted or encoded as JSON.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return &f
}
