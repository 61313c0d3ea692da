package routes

import (
	"medibook/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the booking endpoint. Duplicate attempts are
// filtered before they reach the handler.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.BookAppointmentHandler == nil {
		return
	}
	bookingGroup := r.Group("/api/appointments")
	if hb.IdempotencyMiddleware != nil {
		bookingGroup.Use(hb.IdempotencyMiddleware)
	}
	bookingGroup.POST("", hb.BookAppointmentHandler)
}

// RegisterReportRoutes sets up the standalone report upload endpoint.
func RegisterReportRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.UploadReportHandler == nil {
		return
	}
	r.POST("/api/reports/upload", hb.UploadReportHandler)
}

// RegisterDoctorRoutes sets up the doctor directory.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.ListDoctorsHandler == nil {
		return
	}
	api := r.Group("/api/doctors")
	{
		api.GET("/:specialty", hb.ListDoctorsHandler)
		api.GET("/:specialty/:id", hb.GetDoctorHandler)
	}
}
