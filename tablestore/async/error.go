package async

import (
	"fmt"
)

// CanceledError is the terminal error of an operation or retrying call that
// was cancelled, either through its handle or through its context. It says
// nothing about whether the remote side effect happened: cancellation only
// suppresses the notification and any further attempts.
type CanceledError struct {
	Attempts int
	Err      error
}

func (e *CanceledError) Error() string {
	if e.Err == nil {
		return "operation canceled"
	}
	return fmt.Sprintf("operation canceled, %v", e.Err)
}

func (e *CanceledError) Unwrap() error {
	return e.Err
}
