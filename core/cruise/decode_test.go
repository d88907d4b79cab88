// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObservations(t *testing.T) {
	t.Parallel()

	body := []byte(`[
		{
			"cruise_code": "G401",
			"cruise_name": "Norwegian Fjords",
			"ship_name": "Iona",
			"departure_port": "Southampton",
			"departure_date": "2025-06-01",
			"duration": 7,
			"cabin_type": "Balcony",
			"fare_type": "Select",
			"date_checked": "03/02/2025",
			"total_price": 1299.5,
			"cabin_price": "1199",
			"fixed_obc": null
		},
		{
			"cruise_code": " P512 ",
			"duration": "N/A",
			"total_price": null
		},
		42,
		"not an object"
	]`)

	got, err := DecodeObservations(body)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "G401", first.CruiseCode)
	assert.Equal(t, "Norwegian Fjords", first.CruiseName)
	assert.Equal(t, "Iona", first.ShipName)
	assert.Equal(t, "Southampton", first.DeparturePort)
	assert.Equal(t, "2025-06-01", first.DepartureDate)
	assert.Equal(t, "7", first.Duration)
	assert.Equal(t, "Balcony", first.CabinType)
	assert.Equal(t, "Select", first.FareType)
	assert.Equal(t, "03/02/2025", first.DateChecked)
	require.NotNil(t, first.TotalPrice)
	assert.InDelta(t, 1299.5, *first.TotalPrice, 1e-9)
	require.NotNil(t, first.CabinPrice)
	assert.InDelta(t, 1199.0, *first.CabinPrice, 1e-9)
	assert.Nil(t, first.FixedOBC)
	assert.Nil(t, first.DrinksPrice)

	second := got[1]
	assert.Equal(t, "P512", second.CruiseCode)
	assert.Equal(t, "N/A", second.Duration)
	assert.Nil(t, second.TotalPrice)
}

func TestDecodeObservationsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"Invalid JSON", `[{"cruise_code":`, errInvalidJSON},
		{"Object", `{"error":"boom"}`, errNotAnArray},
		{"Empty body", ``, errInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeObservations([]byte(tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeEmptyArray(t *testing.T) {
	t.Parallel()

	got, err := DecodeObservations([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestDecodeNonFinitePrices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		price string
		want  *float64
	}{
		{"NaN string", `"NaN"`, nil},
		{"Inf string", `"Inf"`, nil},
		{"Negative infinity string", `"-Infinity"`, nil},
		{"Overflowing number", `1e999`, nil},
		{"Overflowing string", `"1e999"`, nil},
		{"Finite string", `" 1199.5 "`, price(1199.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeObservations([]byte(`[{"cruise_code":"G401","total_price":` + tt.price + `}]`))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].TotalPrice)
		})
	}
}
