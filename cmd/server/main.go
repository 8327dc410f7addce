package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ManxCat/tradeproof/configs"
	"github.com/ManxCat/tradeproof/internal/handlers"
	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/ManxCat/tradeproof/internal/middleware"
	"github.com/ManxCat/tradeproof/internal/routes"
	"github.com/ManxCat/tradeproof/internal/seed"
	"github.com/ManxCat/tradeproof/internal/store"
	"github.com/ManxCat/tradeproof/internal/whop"
	"go.uber.org/zap"
)

func main() {
	logger.Init("info", "json")
	configs.LoadConfig()
	logger.Init(configs.AppConfig.Logger.Level, configs.AppConfig.Logger.Format)
	defer logger.Log.Sync()

	store.NewDB()
	store.DBMigrate()
	seed.Run()

	whopClient := whop.NewClient(whop.Config{
		BaseURL:        configs.AppConfig.Whop.APIBaseURL,
		APIKey:         configs.AppConfig.Whop.APIKey,
		DemoMode:       configs.AppConfig.Whop.DemoMode,
		RateLimit:      configs.AppConfig.Whop.RateLimit,
		RateLimitBurst: configs.AppConfig.Whop.RateLimitBurst,
	}, logger.Log)
	middleware.WhopClient = whopClient
	handlers.WhopClient = whopClient

	router := routes.NewRoutes()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configs.AppConfig.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	logger.Log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Log.Info("server stopped")
}
