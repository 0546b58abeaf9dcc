package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trimly/config"
	"trimly/cron"
	"trimly/database"
	bookingRepoPkg "trimly/database/repository/booking"
	directoryRepoPkg "trimly/database/repository/directory"
	notificationRepoPkg "trimly/database/repository/notification"
	"trimly/handlers"
	"trimly/middleware"
	"trimly/routes"
	"trimly/services/notification"
	"trimly/services/scheduling"
	"trimly/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()
	utils.StartHealthMonitor(database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	directoryRepo := directoryRepoPkg.NewMongoDirectoryRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	if err := bookingRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// services.
	fcmService, err := notification.NewDefaultNotificationService(directoryRepo, notificationRepo, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer asynqClient.Close()

	queuedNotifier, err := notification.NewQueuedNotificationService(asynqClient, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize queued notifier: %v", err)
	}

	schedulingService := &scheduling.DefaultSchedulingService{
		Repo:                 bookingRepo,
		Directory:            directoryRepo,
		Notifier:             queuedNotifier,
		Locker:               scheduling.NewEmployeeLocker(utils.GetLockClient()),
		Cache:                utils.GetCacheClient(),
		BufferMinutes:        config.AppConfig.BufferMinutes,
		MissedGraceMinutes:   config.AppConfig.MissedGraceMinutes,
		NotifyMinImprovement: config.AppConfig.CascadeNotifyMinImprovement,
		NotifyWaitThreshold:  config.AppConfig.CascadeNotifyWaitThreshold,
		Logger:               logger,
	}

	// Background worker: push delivery and the periodic reconciliation tick.
	cron.InitWorker(schedulingService, fcmService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		BookingRepo:   bookingRepo,
		DirectoryRepo: directoryRepo,

		CreateBookingHandler: handlers.CreateBookingHandler(schedulingService),
		CancelBookingHandler: handlers.CancelBookingHandler(schedulingService),

		ShopQueueHandler:     handlers.ShopQueueHandler(schedulingService),
		EmployeeQueueHandler: handlers.EmployeeQueueHandler(schedulingService),

		NotificationHistoryHandler: handlers.NotificationHistoryHandler(fcmService),
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
