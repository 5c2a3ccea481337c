package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	configs "classwork_service/config"
	"classwork_service/internal/cache"
	"classwork_service/internal/filestore"
	"classwork_service/internal/repository"
	"classwork_service/internal/server/classwork_http"
	"classwork_service/internal/service"
	"classwork_service/pkg/db"
	"classwork_service/pkg/kafka"
	"classwork_service/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	log := logger.New()
	defer log.Sync() //nolint:errcheck

	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig := db.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	}

	pg, err := db.NewPostgres(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	groupRepo := repository.NewGroupRepository(pg.DB())
	assignmentRepo := repository.NewAssignmentRepository(pg.DB())
	submissionRepo := repository.NewSubmissionRepository(pg.DB())

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
	defer rdb.Close()
	membershipCache := cache.NewRedisCache(rdb)

	files, err := filestore.NewS3Store(context.Background(), filestore.S3Config{
		Endpoint:        cfg.S3.Endpoint,
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Bucket:          cfg.S3.Bucket,
	})
	if err != nil {
		log.Fatalf("Failed to create file store: %v", err)
	}

	kafkaProducer, err := kafka.NewProducer(kafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer kafkaProducer.Close()

	access := service.NewAccess(groupRepo, membershipCache, cfg.Redis.MembershipTTL)

	groupService := service.NewGroupService(groupRepo, access)
	assignmentService := service.NewAssignmentService(
		assignmentRepo,
		submissionRepo,
		groupRepo,
		access,
		files,
		log,
	)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		assignmentRepo,
		access,
		files,
		log,
	)
	reviewService := service.NewReviewService(
		submissionRepo,
		kafkaProducer,
		cfg.Kafka.EventsTopic,
		log,
	)

	handler := classwork_http.NewHandler(
		groupService,
		assignmentService,
		submissionService,
		reviewService,
		log,
	)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	if cfg.Worker.RemindersEnabled {
		worker := NewReminderWorker(
			assignmentService,
			kafkaProducer,
			log,
			cfg.Kafka.RemindersTopic,
			cfg.Worker.Interval,
			cfg.Worker.DueWindow,
		)
		go worker.Start(workerCtx)
	}

	server := classwork_http.NewServer(cfg.HTTP.Address, cfg.HTTP.Timeout, handler.Routes())

	go func() {
		log.Infof("Starting HTTP server on %s", cfg.HTTP.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Failed to shut down server: %v", err)
	}
	log.Info("Server stopped")
}
