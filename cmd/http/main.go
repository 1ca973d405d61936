package main

import (
	"claimdesk-service/internal/app/config"
	"claimdesk-service/internal/app/delivery/http/controllers"
	"claimdesk-service/internal/app/delivery/http/middlewares"
	"claimdesk-service/internal/app/delivery/http/routers"
	"claimdesk-service/internal/app/drivers/database"
	"claimdesk-service/internal/app/drivers/logger"
	"claimdesk-service/internal/app/drivers/messaging"
	"claimdesk-service/internal/app/drivers/storage"
	"claimdesk-service/internal/app/services/adjudication"
	"claimdesk-service/internal/app/services/core/decisions"
	"claimdesk-service/internal/app/services/core/workflow"
	"claimdesk-service/internal/app/services/extraction"
	"claimdesk-service/internal/app/services/shared/events"
	sharedredis "claimdesk-service/internal/app/services/shared/redis"
	sharedstorage "claimdesk-service/internal/app/services/shared/storage"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	if err := bootstrapingTheApp(bootstrap); err != nil {
		log.Fatalf("Failed to bootstrap application: %v", err)
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error closing application resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap) error {
	// Shared infrastructure
	sessionCacheRepository := sharedredis.NewSessionCacheRepository(bootstrap.Redis)
	documentStorage := sharedstorage.NewMinioStorage(bootstrap.Minio, bootstrap.DriverConfig.Minio.BucketName)
	eventPublisher, err := events.NewEventPublisher(bootstrap.RabbitMQ)
	if err != nil {
		return err
	}

	// External collaborators
	extractionClient := extraction.NewExtractionClient(bootstrap.InternalConfig.Services.ExtractionBaseUrl, bootstrap.Logger)
	adjudicationClient := adjudication.NewAdjudicationClient(bootstrap.InternalConfig.Services.AdjudicationBaseUrl, bootstrap.Logger)

	// Decision audit trail
	decisionRepository := decisions.NewDecisionMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)

	// Claim engine
	claimUsecase := workflow.NewClaimUsecase(
		extractionClient,
		adjudicationClient,
		sessionCacheRepository,
		decisionRepository,
		eventPublisher,
		documentStorage,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	claimController := controllers.NewClaimController(bootstrap.Logger, claimUsecase)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, claimController)
	return nil
}
