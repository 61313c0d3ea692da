package booking

import (
	"context"
	"time"

	"medibook/models"
)

// BookingInput is a parsed booking submission as received by the handler.
type BookingInput struct {
	DoctorID       string
	StartTime      time.Time
	EndTime        time.Time
	Description    string
	Type           models.VisitMode
	MedicalForm    models.IntakeRecord
	Reports        []models.EncodedAttachment
	IdempotencyKey string
}

// AppointmentService books appointments.
type AppointmentService interface {
	Book(ctx context.Context, input BookingInput) (*models.Appointment, error)
}

// ReminderScheduler queues the reminder of a stored appointment. It returns
// false when the reminder window has already passed.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment) (bool, error)
}
