package routes

import (
	"net/http"
	"time"

	"medibook/handlers"
	"medibook/middleware"
	"medibook/submission"
	"medibook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		state := "ok"
		if !status.CheckedAt.IsZero() && !status.Healthy {
			code = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(code, gin.H{"status": state, "message": "Hi, I'm MediBook", "dependencies": status})
	})
}

// RegisterMetricsRoute exposes Prometheus metrics when a handler is set.
func RegisterMetricsRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.MetricsHandler != nil {
		r.GET("/metrics", hb.MetricsHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", submission.IdempotencyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterMetricsRoute(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReportRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
}
