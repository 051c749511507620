package stage

import (
	"math/rand/v2"
	"time"
)

// RetryConfig bounds the model invocations made for one stage call.
type RetryConfig struct {
	// MaxAttempts is the total number of invocations, including the first.
	MaxAttempts int

	// BackoffBase is the delay before the first retry.
	BackoffBase time.Duration

	// BackoffMultiplier is applied to the delay on each further retry.
	BackoffMultiplier float64

	// MaxBackoff caps the delay.
	MaxBackoff time.Duration
}

// DefaultRetryConfig allows two extra attempts after the first, with
// exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        30 * time.Second,
	}
}

// backoff computes the delay after the given attempt number (1-based).
// Jitter of +/-25% avoids synchronized retries across concurrent runs.
func (c RetryConfig) backoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= c.BackoffMultiplier
	}

	delay := time.Duration(float64(c.BackoffBase) * multiplier)
	if delay > c.MaxBackoff {
		delay = c.MaxBackoff
	}

	jitter := float64(delay) * 0.25 * (rand.Float64()*2 - 1)
	return delay + time.Duration(jitter)
}
