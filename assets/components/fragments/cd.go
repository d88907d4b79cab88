// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package fragments holds small helpers shared by page views.
package fragments

import (
	"context"

	"codeberg.org/cruisetracker/cruisetracker/server/request_context"
	"codeberg.org/cruisetracker/cruisetracker/server/template/commondata"
)

// CommonData returns the layout data of the request being rendered.
func CommonData(ctx context.Context) commondata.PageCommonData {
	return request_context.FromContext(ctx).CommonData
}
