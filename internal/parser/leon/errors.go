package leon

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError: ответ API с кодом >= 400.
type StatusError struct {
	Op     string
	Code   int
	Status string
	Header http.Header
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d %s", e.Op, e.Code, e.Status)
}

// TooManyRequestsError is synthesized for 429 responses. Resty does not
// treat that status as an error, so the client raises it explicitly.
type TooManyRequestsError struct {
	StatusError
}

func (e *TooManyRequestsError) Error() string {
	return fmt.Sprintf("%s: too many requests", e.Op)
}

func (e *TooManyRequestsError) Unwrap() error { return &e.StatusError }

// RemoteCallError wraps a transport failure (DNS, connection reset, timeout).
type RemoteCallError struct {
	Op  string
	Err error
}

func (e *RemoteCallError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *RemoteCallError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is an HTTP status failure in the 4xx range.
// Every client error is retried, not only 429; 5xx, transport and decode
// failures are not.
func IsRetryable(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code >= 400 && se.Code <= 499
}

func statusError(op string, code int, status string, header http.Header) error {
	se := StatusError{Op: op, Code: code, Status: status, Header: header.Clone()}
	if code == http.StatusTooManyRequests {
		return &TooManyRequestsError{StatusError: se}
	}
	return &se
}
