package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/michalwarchol/slash-api/config"
	"github.com/michalwarchol/slash-api/internal/api/handler"
	"github.com/michalwarchol/slash-api/internal/api/router"
	"github.com/michalwarchol/slash-api/internal/repository"
	"github.com/michalwarchol/slash-api/internal/service"
	"github.com/michalwarchol/slash-api/pkg/database"
	"github.com/michalwarchol/slash-api/pkg/jwt"
	applogger "github.com/michalwarchol/slash-api/pkg/logger"
	"github.com/michalwarchol/slash-api/pkg/mailer"
	"github.com/michalwarchol/slash-api/pkg/redis"
	"github.com/michalwarchol/slash-api/pkg/storage"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("unwrap sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// Redis backs the token blacklist, the popularity cache and the rate
	// limiter; the API does not start without it.
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}

	ctx := context.Background()
	store, err := storage.NewS3Store(ctx, &cfg.Storage, logger)
	if err != nil {
		logger.Fatal("init object storage", zap.Error(err))
	}

	mail := mailer.NewSMTPMailer(&cfg.Mail, logger)
	jwtMgr := jwt.NewManager(&cfg.Auth)

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, store, mail, logger)
	h := handler.NewHandler(svc)

	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // uploads stream through the handler
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if closeDB, err := db.DB(); err == nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("stopped")
}
