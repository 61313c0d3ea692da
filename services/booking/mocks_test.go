package booking

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	appointmentRepo "medibook/database/repository/appointment"
	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/services/storage"
)

var _ doctorRepo.DoctorRepository = (*mockDoctorRepo)(nil)

type mockDoctorRepo struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.Doctor, error)
}

func (m *mockDoctorRepo) Create(ctx context.Context, doc *models.Doctor) error { return nil }

func (m *mockDoctorRepo) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, doctorRepo.ErrNotFound
}

func (m *mockDoctorRepo) ListBySpecialty(ctx context.Context, specialty string) ([]models.Doctor, error) {
	return nil, nil
}

func (m *mockDoctorRepo) EnsureIndexes(ctx context.Context) error { return nil }

var _ appointmentRepo.AppointmentRepository = (*mockAppointmentRepo)(nil)

type mockAppointmentRepo struct {
	CreateFunc              func(ctx context.Context, appt *models.Appointment) error
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (*models.Appointment, error)

	CreateCallCount int32
	created         []models.Appointment
	mu              sync.Mutex
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, appt)
	}
	m.mu.Lock()
	m.created = append(m.created, *appt)
	m.mu.Unlock()
	return nil
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return nil, appointmentRepo.ErrNotFound
}

func (m *mockAppointmentRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.Appointment, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, key)
	}
	return nil, appointmentRepo.ErrNotFound
}

func (m *mockAppointmentRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	return nil
}

func (m *mockAppointmentRepo) EnsureIndexes(ctx context.Context) error { return nil }

var _ storage.Relay = (*mockRelay)(nil)

type mockRelay struct {
	UploadFunc func(ctx context.Context, encoded, name string) (string, error)

	UploadCallCount int32
	mu              sync.Mutex
	names           []string
}

func (m *mockRelay) Upload(ctx context.Context, encoded, name string) (string, error) {
	atomic.AddInt32(&m.UploadCallCount, 1)
	m.mu.Lock()
	m.names = append(m.names, name)
	m.mu.Unlock()
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, encoded, name)
	}
	return "https://res.cloudinary.com/demo/raw/upload/patient_reports/" + name, nil
}

var _ ReminderScheduler = (*mockScheduler)(nil)

type mockScheduler struct {
	ScheduleFunc func(ctx context.Context, appt models.Appointment) (bool, error)

	ScheduleCallCount int32
}

func (m *mockScheduler) ScheduleReminder(ctx context.Context, appt models.Appointment) (bool, error) {
	atomic.AddInt32(&m.ScheduleCallCount, 1)
	if m.ScheduleFunc != nil {
		return m.ScheduleFunc(ctx, appt)
	}
	return true, nil
}
