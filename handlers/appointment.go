package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medibook/models"
	"medibook/services/booking"
	"medibook/submission"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler serves the booking endpoint.
type AppointmentHandler struct {
	Service booking.AppointmentService
}

func NewAppointmentHandler(svc booking.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// BookAppointmentHandler books an appointment from a multipart booking form.
func (h *AppointmentHandler) BookAppointmentHandler(c *gin.Context) {
	logger := getLogger(c)

	input, err := parseBookingForm(c)
	if err != nil {
		logger.Warn("Invalid booking form", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.SubmissionResult{Success: false, Error: err.Error()})
		return
	}
	input.IdempotencyKey = c.GetHeader(submission.IdempotencyHeader)

	appt, err := h.Service.Book(c.Request.Context(), input)
	if err != nil {
		status, msg := bookingFailure(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to book appointment", zap.Error(err))
		}
		c.JSON(status, models.SubmissionResult{Success: false, Error: msg})
		return
	}

	data, err := json.Marshal(appt)
	if err != nil {
		logger.Error("Failed to encode appointment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.SubmissionResult{Success: false, Error: "failed to book appointment"})
		return
	}
	c.JSON(http.StatusOK, models.SubmissionResult{Success: true, Data: data})
}

func parseBookingForm(c *gin.Context) (booking.BookingInput, error) {
	var input booking.BookingInput

	input.DoctorID = c.PostForm(submission.FieldSubjectID)
	if input.DoctorID == "" {
		// Older clients send the doctor as "doctorId".
		input.DoctorID = c.PostForm("doctorId")
	}

	var err error
	if input.StartTime, err = parseFormTime(c, submission.FieldStartTime); err != nil {
		return input, err
	}
	if input.EndTime, err = parseFormTime(c, submission.FieldEndTime); err != nil {
		return input, err
	}
	input.Description = c.PostForm(submission.FieldDescription)
	input.Type = models.VisitMode(c.PostForm(submission.FieldAppointmentType))

	medicalForm := c.PostForm(submission.FieldMedicalForm)
	if medicalForm == "" {
		return input, errors.New("medicalForm is required")
	}
	if err := json.Unmarshal([]byte(medicalForm), &input.MedicalForm); err != nil {
		return input, fmt.Errorf("medicalForm is not valid JSON: %v", err)
	}

	if reports := strings.TrimSpace(c.PostForm(submission.FieldReportFiles)); reports != "" {
		if err := json.Unmarshal([]byte(reports), &input.Reports); err != nil {
			return input, fmt.Errorf("reportFilesBase64 is not valid JSON: %v", err)
		}
	}
	return input, nil
}

func parseFormTime(c *gin.Context, field string) (time.Time, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", field)
	}
	return t, nil
}

// bookingFailure maps a Book error to a status code and a patient-facing message.
func bookingFailure(err error) (int, string) {
	var be *booking.BookingError
	if !errors.As(err, &be) {
		return http.StatusInternalServerError, "failed to book appointment"
	}
	switch be.Code {
	case booking.CodeValidation:
		return http.StatusBadRequest, be.Message
	case booking.CodeDoctorNotFound:
		return http.StatusNotFound, be.Message
	case booking.CodeUploadFailed:
		return http.StatusBadGateway, be.Message
	default:
		return http.StatusInternalServerError, "failed to book appointment"
	}
}
