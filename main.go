package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	appointmentRepo "medibook/database/repository/appointment"
	doctorRepo "medibook/database/repository/doctor"
	"medibook/handlers"
	"medibook/metrics"
	"medibook/middleware"
	"medibook/routes"
	"medibook/services/booking"
	"medibook/services/tasks"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := database.InitDB(logger); err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	cacheClient, err := utils.GetCacheClient()
	if err != nil {
		logger.Fatal("main: failed to connect to Redis", zap.Error(err))
	}

	relay, closeRelay, err := utils.NewUploadRelay(ctx, config.AppConfig, logger.Named("UploadRelay"))
	if err != nil {
		logger.Fatal("main: failed to initialize upload relay", zap.Error(err))
	}
	defer closeRelay()

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo(database.DB())
	docRepo := doctorRepo.NewMongoDoctorRepo(database.DB())
	for name, ensure := range map[string]func(context.Context) error{
		"appointments": apptRepo.EnsureIndexes,
		"doctors":      docRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.Fatal("main: failed to create indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	// reminders.
	queueClient := asynq.NewClient(cron.RedisOpt())
	defer queueClient.Close()
	reminderWorker := cron.InitReminderWorker(apptRepo, logger)
	reminders := tasks.NewReminderScheduler(queueClient, config.AppConfig.ReminderLead)

	// services.
	m := metrics.New("medibook")
	appointmentService := booking.NewAppointmentService(docRepo, apptRepo, relay, reminders, m, logger.Named("Booking"))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAppointmentHandler(appointmentService),
		handlers.NewStorageHandler(relay),
		handlers.NewDoctorHandler(docRepo),
	)
	handlerBundle.IdempotencyMiddleware = middleware.Idempotency(
		middleware.NewRedisIdempotencyStore(cacheClient),
		config.AppConfig.IdempotencyTTL,
	)
	handlerBundle.MetricsHandler = m.Handler()

	utils.StartHealthMonitor(ctx, map[string]utils.Pinger{
		"mongo": utils.MongoPinger(database.MongoClient),
		"redis": utils.RedisPinger(cacheClient),
	}, 60*time.Second, logger)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(m.Middleware())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	reminderWorker.Shutdown()
	if err := database.Close(shutdownCtx); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
