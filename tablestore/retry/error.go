package retry

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// MaxAttemptsError is the terminal error of a call whose attempt budget ran
// out while the failures were still transient.
type MaxAttemptsError struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *MaxAttemptsError) Error() string {
	return fmt.Sprintf("exceeded maximum number of attempts, %d, in %v, %v", e.Attempts, e.Elapsed, e.Err)
}

func (e *MaxAttemptsError) Unwrap() error {
	return e.Err
}

// MaxElapsedError is the terminal error of a call whose overall time budget
// ran out while the failures were still transient.
type MaxElapsedError struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *MaxElapsedError) Error() string {
	return fmt.Sprintf("exceeded maximum elapsed time, %v, after %d attempts, %v", e.Elapsed, e.Attempts, e.Err)
}

func (e *MaxElapsedError) Unwrap() error {
	return e.Err
}

var retriableErrorStrings = []string{
	"use of closed network connection",
	"unexpected EOF reading trailer",
	"transport connection broken",
	"http: ContentLength=",
	"server closed idle connection",
	"connection reset by peer",
	"stream error:",
	"tls: use of closed connection",
}

var retriableErrors = []error{
	io.EOF,
	io.ErrUnexpectedEOF,
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return true
	}

	for _, retriableErr := range retriableErrors {
		if errors.Is(err, retriableErr) {
			return true
		}
	}

	errString := err.Error()
	for _, phrase := range retriableErrorStrings {
		if strings.Contains(errString, phrase) {
			return true
		}
	}

	return false
}
