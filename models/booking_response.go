package models

import "encoding/json"

// SubmissionResult is the body returned by the booking handler for one attempt.
type SubmissionResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
