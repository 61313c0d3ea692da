package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	appointmentRepo "medibook/database/repository/appointment"
	doctorRepo "medibook/database/repository/doctor"
	"medibook/metrics"
	"medibook/models"
	"medibook/services/storage"
	"medibook/submission"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultAppointmentService validates a submission, relays its reports,
// stores the appointment and queues its reminder.
type DefaultAppointmentService struct {
	Doctors      doctorRepo.DoctorRepository
	Appointments appointmentRepo.AppointmentRepository
	Relay        storage.Relay
	Reminders    ReminderScheduler
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewAppointmentService(
	doctors doctorRepo.DoctorRepository,
	appointments appointmentRepo.AppointmentRepository,
	relay storage.Relay,
	reminders ReminderScheduler,
	m *metrics.Metrics,
	logger *zap.Logger,
) *DefaultAppointmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAppointmentService{
		Doctors:      doctors,
		Appointments: appointments,
		Relay:        relay,
		Reminders:    reminders,
		Metrics:      m,
		Logger:       logger,
		Now:          time.Now,
	}
}

// Book stores a new appointment for input. A repeated idempotency key returns
// the appointment created by the first attempt without relaying anything.
func (s *DefaultAppointmentService) Book(ctx context.Context, input BookingInput) (*models.Appointment, error) {
	logger := s.Logger.With(
		zap.String("doctorId", input.DoctorID),
		zap.String("idempotencyKey", input.IdempotencyKey),
	)
	appt, err := s.book(ctx, logger, input)
	s.Metrics.ObserveBooking(outcomeOf(err))
	if err != nil {
		logger.Warn("Book: booking rejected", zap.Error(err))
	}
	return appt, err
}

func (s *DefaultAppointmentService) book(ctx context.Context, logger *zap.Logger, input BookingInput) (*models.Appointment, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" {
		existing, err := s.Appointments.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		switch {
		case err == nil:
			logger.Info("Book: replaying existing appointment", zap.String("appointmentId", existing.ID))
			return existing, nil
		case !errors.Is(err, appointmentRepo.ErrNotFound):
			return nil, newInternalError("failed to look up previous attempt", err)
		}
	}

	doctor, err := s.Doctors.GetByID(ctx, input.DoctorID)
	if errors.Is(err, doctorRepo.ErrNotFound) {
		return nil, newDoctorNotFoundError(input.DoctorID)
	}
	if err != nil {
		return nil, newInternalError("failed to load doctor", err)
	}
	if doctor.VerificationStatus != models.DoctorVerified {
		return nil, NewValidationError("doctor is not accepting appointments")
	}

	now := s.now()
	if input.StartTime.Before(now) {
		return nil, NewValidationError("appointment slot has already started")
	}

	id := uuid.New().String()
	reports, err := s.relayReports(ctx, logger, id, input.Reports)
	if err != nil {
		return nil, newUploadError(err)
	}

	appt := &models.Appointment{
		ID:             id,
		DoctorID:       doctor.ID,
		StartTime:      input.StartTime.UTC(),
		EndTime:        input.EndTime.UTC(),
		Description:    input.Description,
		Type:           input.Type,
		Status:         models.AppointmentScheduled,
		Credits:        models.AppointmentCost,
		MedicalForm:    input.MedicalForm,
		Reports:        reports,
		IdempotencyKey: input.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrDuplicate) && input.IdempotencyKey != "" {
			// A concurrent attempt with the same key won the insert.
			existing, lookupErr := s.Appointments.GetByIdempotencyKey(ctx, input.IdempotencyKey)
			if lookupErr == nil {
				logger.Warn("Book: lost insert race, replaying existing appointment",
					zap.String("appointmentId", existing.ID),
					zap.Strings("orphanedReports", reportURLs(reports)))
				return existing, nil
			}
		}
		return nil, newInternalError("failed to store appointment", err)
	}

	logger = logger.With(zap.String("appointmentId", appt.ID))
	if s.Reminders != nil {
		scheduled, err := s.Reminders.ScheduleReminder(ctx, *appt)
		switch {
		case err != nil:
			// The booking stands; only the reminder is lost.
			logger.Error("Book: failed to schedule reminder", zap.Error(err))
		case !scheduled:
			logger.Debug("Book: reminder window already passed")
		}
	}

	logger.Info("Book: appointment booked",
		zap.Time("startTime", appt.StartTime),
		zap.Int("reports", len(appt.Reports)))
	return appt, nil
}

// relayReports uploads every report concurrently and returns their URLs in
// input order. Names are prefixed with the appointment id so two patients
// uploading "report.pdf" do not overwrite each other.
func (s *DefaultAppointmentService) relayReports(ctx context.Context, logger *zap.Logger, apptID string, reports []models.EncodedAttachment) ([]models.ReportFile, error) {
	out := make([]models.ReportFile, len(reports))
	if len(reports) == 0 {
		return out, nil
	}
	if s.Relay == nil {
		return nil, errors.New("no upload relay configured")
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range reports {
		g.Go(func() error {
			start := time.Now()
			url, err := s.Relay.Upload(gctx, r.Data, apptID+"_"+r.Label)
			if err != nil {
				s.Metrics.ObserveUpload("failure", time.Since(start))
				return err
			}
			s.Metrics.ObserveUpload("success", time.Since(start))
			out[i] = models.ReportFile{Name: r.Label, URL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if orphaned := reportURLs(out); len(orphaned) > 0 {
			logger.Warn("Book: orphaned report uploads",
				zap.String("appointmentId", apptID),
				zap.Strings("orphanedReports", orphaned))
		}
		return nil, err
	}
	return out, nil
}

// reportURLs lists the URLs of the reports that made it to the relay.
func reportURLs(reports []models.ReportFile) []string {
	var urls []string
	for _, r := range reports {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// ValidateInput checks everything about input that does not need storage.
func ValidateInput(input BookingInput) error {
	if strings.TrimSpace(input.DoctorID) == "" {
		return NewValidationError("doctor id is required")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return NewValidationError("start and end time are required")
	}
	if !input.EndTime.After(input.StartTime) {
		return NewValidationError("end time must be after start time")
	}
	if !input.Type.Valid() {
		return NewValidationError(fmt.Sprintf("invalid appointment type %q", input.Type))
	}
	if errs := models.ValidateStruct(input.MedicalForm); len(errs) > 0 {
		return NewValidationError("invalid medical form: " + joinFieldErrors(errs))
	}
	for i, r := range input.Reports {
		if strings.TrimSpace(r.Label) == "" {
			return NewValidationError(fmt.Sprintf("report %d has no file name", i+1))
		}
		if _, _, err := submission.DecodeDataURI(r.Data); err != nil {
			return NewValidationError(fmt.Sprintf("report %q is not a valid data URI", r.Label))
		}
	}
	return nil
}

func joinFieldErrors(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = errs[k]
	}
	return strings.Join(msgs, "; ")
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeInternal
}
