package booking

import "fmt"

// Error codes carried by BookingError.
const (
	CodeValidation     = "validation"
	CodeDoctorNotFound = "doctorNotFound"
	CodeUploadFailed   = "uploadFailed"
	CodeInternal       = "internal"
)

// BookingError is returned by Book. Message is safe to show the patient; Err
// keeps the underlying cause for logs.
type BookingError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error { return e.Err }

func NewValidationError(msg string) error {
	return &BookingError{Code: CodeValidation, Message: msg}
}

func newDoctorNotFoundError(id string) error {
	return &BookingError{Code: CodeDoctorNotFound, Message: fmt.Sprintf("doctor %q not found", id)}
}

func newUploadError(err error) error {
	return &BookingError{Code: CodeUploadFailed, Message: "failed to upload medical reports", Err: err}
}

func newInternalError(msg string, err error) error {
	return &BookingError{Code: CodeInternal, Message: msg, Err: err}
}
