// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMakeAt(t *testing.T) {
	t.Parallel()

	id := MakeAt(time.Date(2025, time.March, 1, 9, 5, 7, 0, time.UTC))

	assert.Len(t, id, Length)
	assert.True(t, strings.HasPrefix(id, "090507"), id)
	assert.NotEqual(t, id, MakeAt(time.Date(2025, time.March, 1, 9, 5, 7, 0, time.UTC)))
}

func TestChild(t *testing.T) {
	t.Parallel()

	child := Child("parent")
	assert.True(t, strings.HasPrefix(child, "parent-"), child)
	assert.Len(t, child, len("parent-")+Length)

	assert.Len(t, Child(""), Length)
}
