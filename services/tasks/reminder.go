package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medibook/models"

	"github.com/hibiken/asynq"
)

const TypeAppointmentReminder = "appointment:reminder"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		// One reminder per appointment, however often scheduling is retried.
		asynq.TaskID("reminder:" + payload.AppointmentID),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues appointment reminders Lead before they start.
type ReminderScheduler struct {
	Client Enqueuer
	Lead   time.Duration
	Now    func() time.Time
}

func NewReminderScheduler(client Enqueuer, lead time.Duration) *ReminderScheduler {
	return &ReminderScheduler{Client: client, Lead: lead, Now: time.Now}
}

// ScheduleReminder enqueues the reminder of appt. It returns false without
// enqueueing when the fire time has already passed.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, appt models.Appointment) (bool, error) {
	fireAt := appt.StartTime.Add(-s.Lead)
	if fireAt.Before(s.Now()) {
		return false, nil
	}

	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientName:   appt.MedicalForm.Name,
		Title:         "Upcoming appointment",
		Body:          fmt.Sprintf("Your %s appointment starts at %s", visitLabel(appt.Type), appt.StartTime.UTC().Format("Jan 2, 15:04 MST")),
		FireDate:      fireAt.UTC().Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return false, fmt.Errorf("ScheduleReminder: failed to build task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return false, fmt.Errorf("ScheduleReminder: failed to enqueue reminder for %s: %w", appt.ID, err)
	}
	return true, nil
}

func visitLabel(m models.VisitMode) string {
	if m == models.VisitVirtual {
		return "video"
	}
	return "in-person"
}
