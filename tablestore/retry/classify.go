package retry

import (
	"errors"

	"google.golang.org/grpc/codes"
)

// CanonicalCoded is implemented by service errors that carry a canonical
// status code.
type CanonicalCoded interface {
	CanonicalCode() codes.Code
}

// DefaultTransientCodes are the canonical codes treated as retryable. All
// other codes are permanent: the server rejected the request and repeating it
// cannot change the outcome.
var DefaultTransientCodes = []codes.Code{
	codes.Unavailable,
	codes.DeadlineExceeded,
	codes.ResourceExhausted,
	codes.Aborted,
	codes.Internal,
}

// RetryableCanonicalCode retries service errors whose canonical code is in
// Codes.
type RetryableCanonicalCode struct {
	Codes []codes.Code
}

func (r *RetryableCanonicalCode) IsErrorRetryable(err error) bool {
	var coded CanonicalCoded
	if !errors.As(err, &coded) {
		return false
	}
	code := coded.CanonicalCode()
	for _, c := range r.Codes {
		if code == c {
			return true
		}
	}
	return false
}

// RetryableConnectionError retries transport-level failures: timeouts, closed
// or reset connections, and truncated responses. The request never produced a
// service verdict, so repeating it is safe for the admin surface.
type RetryableConnectionError struct{}

func (r *RetryableConnectionError) IsErrorRetryable(err error) bool {
	return isConnectionError(err)
}
