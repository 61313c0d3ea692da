package submission

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSubmissionInFlight is returned by Submit while an earlier attempt is pending.
	ErrSubmissionInFlight = errors.New("submission: an attempt is already pending")
	// ErrMalformedDataURI is returned when a string is not a base64 data URI.
	ErrMalformedDataURI = errors.New("submission: malformed data URI")
)

// ReadError means an attachment could not be read, so nothing was sent.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("submission: could not read %q: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// NetworkError wraps a transport failure of the submission call.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("submission: request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError means the booking handler answered but did not report success.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("submission: booking rejected (%d): %s", e.StatusCode, e.Message)
}

// ValidationError lists required form fields that are missing or invalid.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "submission: invalid form: " + strings.Join(msgs, "; ")
}
