package tablestore

import (
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
)

// ServiceError is an error response produced by the service. Code is the
// canonical status code parsed from the response body; the retry layer keys
// its transient/permanent classification off it.
type ServiceError struct {
	// HTTP status code
	StatusCode int

	// Canonical status code, e.g. codes.NotFound
	Code codes.Code

	Message string

	RequestID string

	Timestamp time.Time

	RequestTarget string

	// The raw response body, for diagnostics when it did not parse.
	Snapshot []byte
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf(
		"service returned error, StatusCode: %d, Code: %s, Message: %q, RequestId: %s, RequestTarget: %s",
		e.StatusCode, e.Code.String(), e.Message, e.RequestID, e.RequestTarget)
}

func (e *ServiceError) CanonicalCode() codes.Code {
	return e.Code
}

// codeFromHTTPStatus maps an HTTP status to a canonical code, used when the
// error body carries no status field.
func codeFromHTTPStatus(statusCode int) codes.Code {
	switch statusCode {
	case 400:
		return codes.InvalidArgument
	case 401:
		return codes.Unauthenticated
	case 403:
		return codes.PermissionDenied
	case 404:
		return codes.NotFound
	case 409:
		return codes.AlreadyExists
	case 412:
		return codes.FailedPrecondition
	case 429:
		return codes.ResourceExhausted
	case 499:
		return codes.Canceled
	case 501:
		return codes.Unimplemented
	case 503:
		return codes.Unavailable
	case 504:
		return codes.DeadlineExceeded
	}
	if statusCode >= 500 {
		return codes.Internal
	}
	return codes.Unknown
}

// OperationError wraps every error leaving a client operation with the
// operation's name.
type OperationError struct {
	OperationName string
	Err           error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation error %s: %v", e.OperationName, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// ClientError is an error detected on the client side, before or after the
// wire exchange: invalid parameters, unserializable input, unreadable output.
// Never retried.
type ClientError struct {
	Code    string
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error, Code: %s, Message: %s, %v", e.Code, e.Message, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func NewErrParamRequired(field string) error {
	return &ClientError{
		Code:    "MissingRequiredParameter",
		Message: fmt.Sprintf("missing required field, %s", field),
	}
}

func NewErrParamInvalid(field string) error {
	return &ClientError{
		Code:    "InvalidParameter",
		Message: fmt.Sprintf("invalid field, %s", field),
	}
}
