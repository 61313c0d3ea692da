package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"medibook/models"
)

// ErrNotFound is returned when no appointment matches.
var ErrNotFound = errors.New("appointment not found")

// ErrDuplicate is returned by Create when a unique index rejects the insert.
var ErrDuplicate = errors.New("appointment already exists")

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	// Create inserts a new appointment.
	Create(ctx context.Context, appt *models.Appointment) error
	// GetByID retrieves an appointment by its ID.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// GetByIdempotencyKey retrieves the appointment created by a submission attempt.
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Appointment, error)
	// MarkReminderSent records when the reminder for an appointment went out.
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
	// EnsureIndexes creates the collection's indexes.
	EnsureIndexes(ctx context.Context) error
}
