// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides HTTP request handling functionality for CruiseTracker.

Middlewares are chained by router.RegisterMiddleware; CatchError wraps each
page handler individually in router.DefineRoutes.
*/
package middleware
