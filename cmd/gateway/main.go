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
	"go.uber.org/zap"

	"github.com/ShareIt-Platform/service-sharing/internal/common/logger"
	"github.com/ShareIt-Platform/service-sharing/internal/common/middleware"
	"github.com/ShareIt-Platform/service-sharing/internal/config"
	"github.com/ShareIt-Platform/service-sharing/internal/gateway"
)

const serviceName = "gateway-sharing"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	gw, err := gateway.New(cfg.GatewayUpstream, log)
	if err != nil {
		log.Fatal("invalid upstream", zap.String("upstream", cfg.GatewayUpstream), zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware())
	gw.RegisterRoutes(&router.RouterGroup)

	srv := &http.Server{
		Addr:         cfg.GatewayPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("gateway starting",
			zap.String("addr", cfg.GatewayPort),
			zap.String("upstream", cfg.GatewayUpstream),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	log.Info(serviceName + " stopped")
}
