package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ShareIt-Platform/service-sharing/internal/application"
	"github.com/ShareIt-Platform/service-sharing/internal/common/database"
	"github.com/ShareIt-Platform/service-sharing/internal/common/health"
	"github.com/ShareIt-Platform/service-sharing/internal/common/kafka"
	"github.com/ShareIt-Platform/service-sharing/internal/common/logger"
	"github.com/ShareIt-Platform/service-sharing/internal/common/metrics"
	"github.com/ShareIt-Platform/service-sharing/internal/common/middleware"
	"github.com/ShareIt-Platform/service-sharing/internal/common/ratelimit"
	"github.com/ShareIt-Platform/service-sharing/internal/config"
	"github.com/ShareIt-Platform/service-sharing/internal/events"
	"github.com/ShareIt-Platform/service-sharing/internal/handler"
	"github.com/ShareIt-Platform/service-sharing/internal/repository"
)

const serviceName = "service-sharing"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName, zap.String("port", cfg.Port))

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:         cfg.DBConfig.Host,
		Port:         cfg.DBConfig.Port,
		User:         cfg.DBConfig.User,
		Password:     cfg.DBConfig.Password,
		DBName:       cfg.DBConfig.DBName,
		SSLMode:      cfg.DBConfig.SSLMode,
		MaxOpenConns: cfg.DBConfig.MaxOpenConns,
		MaxIdleConns: cfg.DBConfig.MaxIdleConns,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.ItemRequestModel{},
			&repository.ItemModel{},
			&repository.BookingModel{},
			&repository.CommentModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics.Register()

	// Initialize event publisher
	var publisher events.Publisher
	if len(cfg.KafkaConfig.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = events.NewKafkaPublisher(producer, cfg.EventsTopic, serviceName)
	} else {
		log.Warn("no kafka brokers configured, booking events are not published")
		publisher = events.NewNoopPublisher(log)
	}

	// Initialize rate limiter
	memoryLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimitConfig.RPS, cfg.RateLimitConfig.Burst)
	var limiter ratelimit.Limiter = memoryLimiter
	if cfg.RedisConfig.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Address,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
			PoolSize: cfg.RedisConfig.PoolSize,
		})
		defer func() { _ = rdb.Close() }()
		redisLimiter := ratelimit.NewRedisLimiter(rdb, cfg.RateLimitConfig.Burst, time.Second)
		limiter = ratelimit.NewFailoverLimiter(redisLimiter, memoryLimiter, log)
	}

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	requestRepo := repository.NewGormItemRequestRepository(db)
	tx := database.NewTransactor(db)

	// Initialize application services
	bookingService := application.NewBookingService(bookingRepo, itemRepo, userRepo, tx, publisher, log)
	itemService := application.NewItemService(itemRepo, commentRepo, requestRepo, userRepo, bookingService, bookingService, tx, log)
	requestService := application.NewRequestService(requestRepo, itemRepo, userRepo, tx, log)
	userService := application.NewUserService(userRepo, bookingRepo, tx, log)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Ops routes stay outside the rate limit
	health.NewHandler(db, serviceName).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("")
	api.Use(middleware.RateLimitMiddleware(limiter, log))
	handler.NewBookingHandler(bookingService).RegisterRoutes(api)
	handler.NewItemHandler(itemService).RegisterRoutes(api)
	handler.NewUserHandler(userService).RegisterRoutes(api)
	handler.NewRequestHandler(requestService).RegisterRoutes(api)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
