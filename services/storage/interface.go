package storage

import (
	"context"
	"fmt"
)

// DefaultFolder is where patient reports are stored when no folder is configured.
const DefaultFolder = "patient_reports"

// Relay stores an encoded file durably and returns a URL for it.
type Relay interface {
	// Upload stores encoded, a base64 data URI, under name.
	Upload(ctx context.Context, encoded, name string) (string, error)
}

// UploadError reports a failed upload. The backend's error is kept so callers
// can tell quota problems from malformed input.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("storage: upload of %q failed: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
