package retry

import (
	"fmt"
	"time"
)

type RetryMode string

const (
	RetryModeStandard RetryMode = "standard"
)

func ParseRetryMode(v string) (mode RetryMode, err error) {
	switch v {
	case "standard":
		return RetryModeStandard, nil
	default:
		return mode, fmt.Errorf("unknown RetryMode, %v", v)
	}
}

func (m RetryMode) String() string { return string(m) }

// Retryer decides whether a failed attempt should be retried and how long to
// wait before the next one. Implementations must be stateless so a single
// instance can be shared by concurrently running calls.
type Retryer interface {
	IsErrorRetryable(error) bool
	MaxAttempts() int
	MaxElapsed() time.Duration
	RetryDelay(attempt int, opErr error) (time.Duration, error)
}

type NopRetryer struct{}

func (NopRetryer) IsErrorRetryable(error) bool { return false }

func (NopRetryer) MaxAttempts() int { return 1 }

func (NopRetryer) MaxElapsed() time.Duration { return 0 }

func (NopRetryer) RetryDelay(int, error) (time.Duration, error) {
	return 0, fmt.Errorf("not retrying any attempt errors")
}

type RetryOptions struct {
	MaxAttempts     int
	MaxElapsed      time.Duration
	MaxBackoff      time.Duration
	BaseDelay       time.Duration
	Backoff         BackoffDelayer
	ErrorRetryables []ErrorRetryable
}

// BackoffDelayer computes the delay before the next attempt.
type BackoffDelayer interface {
	BackoffDelay(attempt int, err error) (time.Duration, error)
}

// ErrorRetryable reports whether an attempt error is transient.
type ErrorRetryable interface {
	IsErrorRetryable(error) bool
}
