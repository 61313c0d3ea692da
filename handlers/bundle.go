package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the middleware specific to them.
type HandlerBundle struct {
	// Booking endpoints
	BookAppointmentHandler gin.HandlerFunc
	IdempotencyMiddleware  gin.HandlerFunc

	// Report uploads
	UploadReportHandler gin.HandlerFunc

	// Doctor directory
	ListDoctorsHandler gin.HandlerFunc
	GetDoctorHandler   gin.HandlerFunc

	// Operations
	MetricsHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handlers into a bundle. Nil handlers leave their
// routes unregistered.
func NewHandlerBundle(appt *AppointmentHandler, store *StorageHandler, doctors *DoctorHandler) *HandlerBundle {
	hb := &HandlerBundle{}
	if appt != nil {
		hb.BookAppointmentHandler = appt.BookAppointmentHandler
	}
	if store != nil {
		hb.UploadReportHandler = store.UploadReportHandler
	}
	if doctors != nil {
		hb.ListDoctorsHandler = doctors.ListDoctorsHandler
		hb.GetDoctorHandler = doctors.GetDoctorHandler
	}
	return hb
}
