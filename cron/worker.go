package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medibook/config"
	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
	"medibook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt returns the connection options of the reminder queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the reminder worker in background. The returned
// server is shut down by the caller.
func InitReminderWorker(repo appointmentRepo.AppointmentRepository, logger *zap.Logger) *asynq.Server {
	logger = logger.Named("ReminderWorker")
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentReminder, handleReminderTask(repo, logger, time.Now))

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Failed to start reminder worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Max retry attempts reached, exiting")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleReminderTask(repo appointmentRepo.AppointmentRepository, logger *zap.Logger, now func() time.Time) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("handleReminderTask: %v: %w", err, asynq.SkipRetry)
		}

		appt, err := repo.GetByID(ctx, p.AppointmentID)
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			logger.Warn("Reminder for unknown appointment dropped", zap.String("appointmentId", p.AppointmentID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("handleReminderTask: failed to load appointment %s: %w", p.AppointmentID, err)
		}
		if appt.ReminderSentAt != nil {
			return nil
		}

		logger.Info("Appointment reminder",
			zap.String("appointmentId", p.AppointmentID),
			zap.String("doctorId", p.DoctorID),
			zap.String("patient", p.PatientName),
			zap.String("title", p.Title),
			zap.String("body", p.Body),
			zap.String("fireDate", p.FireDate))

		if err := repo.MarkReminderSent(ctx, p.AppointmentID, now().UTC()); err != nil {
			return fmt.Errorf("handleReminderTask: failed to mark reminder sent: %w", err)
		}
		return nil
	}
}
