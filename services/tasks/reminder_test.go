package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"medibook/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "reminder:x", Type: task.Type()}, nil
}

func testAppointment() models.Appointment {
	return models.Appointment{
		ID:          "appt-1",
		DoctorID:    "doc_42",
		StartTime:   time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		Type:        models.VisitVirtual,
		MedicalForm: models.IntakeRecord{Name: "Ana"},
	}
}

func TestNewReminderTask(t *testing.T) {
	fireAt := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	task, opts, err := NewReminderTask(models.ReminderPayload{AppointmentID: "appt-1"}, fireAt)
	require.NoError(t, err)
	assert.Equal(t, TypeAppointmentReminder, task.Type())
	assert.Len(t, opts, 3)

	var p models.ReminderPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "appt-1", p.AppointmentID)
}

func TestReminderScheduler_Schedules(t *testing.T) {
	enq := &fakeEnqueuer{}
	s := NewReminderScheduler(enq, time.Hour)
	s.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	ok, err := s.ScheduleReminder(context.Background(), testAppointment())
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, enq.tasks, 1)

	var p models.ReminderPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
	assert.Equal(t, "appt-1", p.AppointmentID)
	assert.Equal(t, "doc_42", p.DoctorID)
	assert.Equal(t, "Ana", p.PatientName)
	assert.Equal(t, "2026-03-02T08:30:00Z", p.FireDate)
	assert.Contains(t, p.Body, "video appointment")
}

func TestReminderScheduler_WindowPassed(t *testing.T) {
	enq := &fakeEnqueuer{}
	s := NewReminderScheduler(enq, time.Hour)
	s.Now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }

	ok, err := s.ScheduleReminder(context.Background(), testAppointment())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, enq.tasks)
}

func TestReminderScheduler_EnqueueError(t *testing.T) {
	down := errors.New("redis: connection refused")
	s := NewReminderScheduler(&fakeEnqueuer{err: down}, time.Hour)
	s.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	ok, err := s.ScheduleReminder(context.Background(), testAppointment())
	assert.False(t, ok)
	assert.ErrorIs(t, err, down)
}
