package retry

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// attemptCeiling bounds the shift used for the exponential growth so the
// computed delay cannot overflow before the cap is applied.
const attemptCeiling = 31

// ExponentialBackoff grows the delay by a factor of two per attempt, capped at
// maxBackoff. No jitter is applied, which makes it the delayer of choice for
// deterministic tests.
type ExponentialBackoff struct {
	baseDelay  time.Duration
	maxBackoff time.Duration
}

func NewExponentialBackoff(baseDelay, maxBackoff time.Duration) *ExponentialBackoff {
	return &ExponentialBackoff{
		baseDelay:  baseDelay,
		maxBackoff: maxBackoff,
	}
}

func (b *ExponentialBackoff) BackoffDelay(attempt int, _ error) (time.Duration, error) {
	if attempt < 1 {
		return 0, fmt.Errorf("attempt must be at least 1, got %d", attempt)
	}
	return exponentialDelay(b.baseDelay, b.maxBackoff, attempt), nil
}

// FullJitterBackoff picks a delay uniformly at random from
// [0, min(maxBackoff, baseDelay*2^(attempt-1))]. Randomness comes from
// math/rand/v2's shared generator, which is safe for concurrent use, so one
// instance can serve many in-flight calls without biasing their sequences.
type FullJitterBackoff struct {
	baseDelay  time.Duration
	maxBackoff time.Duration

	randFloat func() float64
}

func NewFullJitterBackoff(baseDelay, maxBackoff time.Duration) *FullJitterBackoff {
	return &FullJitterBackoff{
		baseDelay:  baseDelay,
		maxBackoff: maxBackoff,
		randFloat:  rand.Float64,
	}
}

func (b *FullJitterBackoff) BackoffDelay(attempt int, _ error) (time.Duration, error) {
	if attempt < 1 {
		return 0, fmt.Errorf("attempt must be at least 1, got %d", attempt)
	}
	ceil := exponentialDelay(b.baseDelay, b.maxBackoff, attempt)
	return time.Duration(b.randFloat() * float64(ceil)), nil
}

func exponentialDelay(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt > attemptCeiling {
		attempt = attemptCeiling
	}
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	if d < 0 || d > max {
		d = max
	}
	return d
}
