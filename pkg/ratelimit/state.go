// Package ratelimit implements request-budget tracking and gating for
// the chain data API. It monitors the X-RateLimit-Remaining and
// X-RateLimit-Reset response headers and shares the resulting state
// through Redis, so every client pointed at the same Redis draws from
// one view of the plan's remaining budget.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyRemaining      = "chaindata:rate_limit:remaining"
	RedisKeyResetTimestamp = "chaindata:rate_limit:reset_timestamp"
	RedisKeyLastUpdate     = "chaindata:rate_limit:last_update"
)

// Thresholds for rate limit decisions.
const (
	// RemainingCritical blocks all requests when the remaining budget
	// falls below this value, keeping headroom so traversals in flight
	// can finish instead of dying on a 429.
	RemainingCritical = 5

	// RemainingWarning applies throttling when the remaining budget
	// falls below this value.
	RemainingWarning = 20

	// RemainingHealthy indicates normal operation. At or above this
	// value no restrictions apply.
	RemainingHealthy = 50
)

// State represents the current request-budget state of the API plan.
// It is shared across all client instances via Redis.
type State struct {
	// Remaining is the number of requests left in the current window,
	// from the X-RateLimit-Remaining header.
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets, calculated from the
	// X-RateLimit-Reset header (seconds until reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was last refreshed from headers.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when Remaining >= RemainingHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state data is older than maxAge.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked.
func (s *State) NeedsCriticalBlock() bool {
	return s.Remaining < RemainingCritical
}

// NeedsThrottling returns true if requests should be slowed down.
func (s *State) NeedsThrottling() bool {
	return s.Remaining < RemainingWarning && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the budget window resets.
// Returns 0 if the reset time has already passed.
func (s *State) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field from the current Remaining.
func (s *State) UpdateHealth() {
	s.IsHealthy = s.Remaining >= RemainingHealthy
}
