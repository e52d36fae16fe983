// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
)

const breakerName = "gemini-api"

// BreakerConfig configures the circuit breaker around model requests.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// ErrCircuitOpen is returned for a batch rejected while the breaker is open.
var ErrCircuitOpen = gobreaker.ErrOpenState

// NewBreaker creates a circuit breaker that opens after FailureThreshold
// consecutive failed requests.
func NewBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[*Response] {
	if cfg.Name == "" {
		cfg.Name = breakerName
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	return gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
