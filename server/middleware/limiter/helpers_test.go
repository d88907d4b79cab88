// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/cruisetracker/cruisetracker/config"
)

// Bucket sizes used by setupTestConfig.
const (
	testRate  = 2.0
	testBurst = 5
)

// testConfigMutex serializes tests that mutate global package state.
var testConfigMutex sync.Mutex

// mockTimeProvider maintains a controllable current time for testing.
type mockTimeProvider struct {
	mu          sync.Mutex
	currentTime time.Time
}

// Now returns the current mock time.
func (m *mockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.currentTime
}

// Sleep advances the mock current time by the specified duration.
func (m *mockTimeProvider) Sleep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentTime = m.currentTime.Add(d)
}

// setupLimiterTest prepares a test environment with a mock clock and
// limiter settings sized for tests, and returns the clock.
//
// The original time function and config are restored when the test completes.
//
// NOTE: Acquire the limiter test lock once for the entire test.
// Do not call setupLimiterTest again in subtests; it's guarded by a global mutex
// and re-entering it would deadlock.
func setupLimiterTest(t *testing.T) *mockTimeProvider {
	t.Helper()

	setupTestConfig(t)

	mockTime := &mockTimeProvider{currentTime: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	origTimeNow := timeNow
	timeNow = mockTime.Now

	limiters.Clear()

	// Registered after setupTestConfig's cleanup, so it runs before the lock is released.
	t.Cleanup(func() {
		timeNow = origTimeNow
		limiters.Clear()
	})

	return mockTime
}

// setupTestConfig configures the global config with test-appropriate values.
// It also acquires a global lock for the duration of the test to serialize
// modifications to package-level state.
func setupTestConfig(t *testing.T) {
	t.Helper()
	testConfigMutex.Lock()

	origConfig := config.Global

	config.Global.Limiter.Enabled = true
	config.Global.Limiter.Rate = testRate
	config.Global.Limiter.Burst = testBurst
	config.Global.Limiter.IPv4Prefix = 24
	config.Global.Limiter.IPv6Prefix = 64
	config.Global.Limiter.PassIPs = []string{"127.0.0.1"}
	config.Global.Limiter.BlockIPs = []string{"10.0.0.1"}
	config.Global.Limiter.StateFilepath = ""

	t.Cleanup(func() {
		config.Global = origConfig

		testConfigMutex.Unlock()
	})
}
