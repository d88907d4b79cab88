// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cruise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func optionsFixture() []Observation {
	return []Observation{
		obs("G401", "Balcony", "Select", "01/02/2025", price(1)),
		obs("G401", "Balcony", "Early Saver", "01/02/2025", price(1)),
		obs("G401", "Inside", "Select", "01/02/2025", price(1)),
		obs("P512", "Suite", "Select", "01/02/2025", price(1)),
		obs("G401", "Balcony", "Select", "02/02/2025", price(1)),
		obs("", "Inside", "Select", "02/02/2025", price(1)),
	}
}

func TestCascadingOptions(t *testing.T) {
	t.Parallel()

	data := optionsFixture()

	assert.Equal(t, []string{"G401", "P512"}, CruiseOptions(data))
	assert.Equal(t, []string{"Balcony", "Inside"}, CabinOptions(data, "G401"))
	assert.Equal(t, []string{"Select", "Early Saver"}, FareOptions(data, "G401", "Balcony"))

	assert.Nil(t, CabinOptions(data, ""))
	assert.Nil(t, FareOptions(data, "G401", ""))
	assert.Empty(t, CabinOptions(data, "NOPE"))
	assert.Empty(t, CruiseOptions(nil))
}

func TestCascade(t *testing.T) {
	t.Parallel()

	full := Selection{Line: "po", Triple: Triple{CruiseCode: "G401", CabinType: "Balcony", FareType: "Select"}}

	tests := []struct {
		name string
		next Selection
		want Selection
	}{
		{
			name: "Unchanged",
			next: full,
			want: full,
		},
		{
			name: "Line changed",
			next: Selection{Line: "princess", Triple: full.Triple},
			want: Selection{Line: "princess"},
		},
		{
			name: "Cruise changed",
			next: Selection{Line: "po", Triple: Triple{CruiseCode: "G402", CabinType: "Balcony", FareType: "Select"}},
			want: Selection{Line: "po", Triple: Triple{CruiseCode: "G402"}},
		},
		{
			name: "Cabin changed",
			next: Selection{Line: "po", Triple: Triple{CruiseCode: "G401", CabinType: "Inside", FareType: "Select"}},
			want: Selection{Line: "po", Triple: Triple{CruiseCode: "G401", CabinType: "Inside"}},
		},
		{
			name: "Fare changed",
			next: Selection{Line: "po", Triple: Triple{CruiseCode: "G401", CabinType: "Balcony", FareType: "Early Saver"}},
			want: Selection{Line: "po", Triple: Triple{CruiseCode: "G401", CabinType: "Balcony", FareType: "Early Saver"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Cascade(full, tt.next))
		})
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	data := optionsFixture()

	valid := Selection{Line: "po", Triple: Triple{CruiseCode: "G401", CabinType: "Balcony", FareType: "Early Saver"}}
	assert.Equal(t, valid, Sanitize(valid, data))

	// Suite is not sold on G401, so the fare goes with it.
	bad := Selection{Line: "po", Triple: Triple{CruiseCode: "G401", CabinType: "Suite", FareType: "Select"}}
	assert.Equal(t, Selection{Line: "po", Triple: Triple{CruiseCode: "G401"}}, Sanitize(bad, data))

	unknown := Selection{Line: "po", Triple: Triple{CruiseCode: "ZZZ", CabinType: "Balcony", FareType: "Select"}}
	assert.Equal(t, Selection{Line: "po"}, Sanitize(unknown, data))

	assert.Equal(t, Selection{Line: "po"}, Sanitize(valid, nil))
}
