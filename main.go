package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldops/config"
	"fieldops/cron"
	"fieldops/database"
	businessRepo "fieldops/database/repository/business"
	customerRepo "fieldops/database/repository/customer"
	jobRepo "fieldops/database/repository/job"
	notificationRepo "fieldops/database/repository/notification"
	reservationRepo "fieldops/database/repository/reservation"
	scheduleRepo "fieldops/database/repository/schedule"
	technicianRepo "fieldops/database/repository/technician"
	"fieldops/handlers"
	"fieldops/middleware"
	"fieldops/routes"
	"fieldops/services/availability"
	"fieldops/services/dispatch"
	"fieldops/services/escalation"
	"fieldops/services/job"
	"fieldops/services/notification"
	"fieldops/services/reservation"
	"fieldops/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	rules := config.RulesFromConfig()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	jobs := jobRepo.NewMongoJobRepo()
	customers := customerRepo.NewMongoCustomerRepo()
	reservations := reservationRepo.NewMongoReservationRepo()
	schedules := scheduleRepo.NewMongoScheduleRepo()
	technicians := technicianRepo.NewMongoTechnicianRepo()
	businesses := businessRepo.NewMongoBusinessRepo()
	notifications := notificationRepo.NewMongoNotificationRepo()

	// services.
	notificationService := &notification.DefaultService{
		Repo:    notifications,
		Gateway: &notification.LoggingGateway{Logger: logger},
		Rules:   rules,
		Now:     time.Now,
		Logger:  logger,
	}

	calculator := &availability.DefaultCalculator{
		Schedule: schedules,
		Jobs:     jobs,
		Rules:    rules,
		Logger:   logger,
	}

	holdCache := reservation.NewHoldCache(utils.GetHoldCacheClient())
	reservationManager := &reservation.DefaultManager{
		Repo:    reservations,
		Cache:   holdCache,
		Checker: calculator,
		Rules:   rules,
		Now:     time.Now,
		Logger:  logger,
	}
	// The calculator counts in-flight holds as busy; the manager pre-checks
	// slots against the calculator. Wired after both exist.
	calculator.Holds = reservationManager

	jobManager := &job.DefaultManager{
		Repo:         jobs,
		Reservations: reservationManager,
		Customers:    customers,
		Techs:        technicians,
		Notifier:     notificationService,
		Rules:        rules,
		Now:          time.Now,
		Logger:       logger,
	}

	dispatcher := &dispatch.DefaultDispatcher{
		Techs:  technicians,
		Logger: logger,
	}

	escalationEngine := &escalation.Engine{
		Jobs:       jobs,
		Businesses: businesses,
		Assigner:   jobManager,
		Addresses:  customers,
		Dispatcher: dispatcher,
		Notifier:   notificationService,
		Locks:      escalation.NewRunLock(utils.GetLockCacheClient()),
		Rules:      rules,
		Now:        time.Now,
		Logger:     logger,
	}

	// handlers.
	availabilityHandler := handlers.NewAvailabilityHandler(calculator, logger)
	reservationHandler := handlers.NewReservationHandler(reservationManager, logger)
	jobHandler := handlers.NewJobHandler(jobManager, logger)
	healthHandler := handlers.NewHealthHandler(holdCache)

	handlerBundle := &handlers.HandlerBundle{
		Health: healthHandler.HealthHandler,

		GetAvailability: availabilityHandler.GetAvailabilityHandler,

		ReserveSlot:         reservationHandler.ReserveSlotHandler,
		ValidateReservation: reservationHandler.ValidateReservationHandler,

		CreateJob:          jobHandler.CreateJobHandler,
		CreateEmergencyJob: jobHandler.CreateEmergencyJobHandler,
		AssignTechnician:   jobHandler.AssignTechnicianHandler,
		UpdateJobStatus:    jobHandler.UpdateJobStatusHandler,
		AddJobNote:         jobHandler.AddJobNoteHandler,
		AddJobPhoto:        jobHandler.AddJobPhotoHandler,
		GetJobNotes:        jobHandler.GetJobNotesHandler,
		GetJobPhotos:       jobHandler.GetJobPhotosHandler,
		GetJob:             jobHandler.GetJobHandler,
		GetJobByCode:       jobHandler.GetJobByCodeHandler,
		ListJobs:           jobHandler.ListJobsHandler,
		GetJobHistory:      jobHandler.GetJobHistoryHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background worker: escalation ticks and notification retries.
	cron.InitBookingWorker(escalationEngine, notificationService, businesses)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
