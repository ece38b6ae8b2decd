package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anitachen83-jpg/portfolio-management/config"
	"github.com/anitachen83-jpg/portfolio-management/data"
	"github.com/anitachen83-jpg/portfolio-management/data/cache"
	"github.com/anitachen83-jpg/portfolio-management/data/repository/postgres"
	"github.com/anitachen83-jpg/portfolio-management/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/anitachen83-jpg/portfolio-management/internal/externalApi/quoteApi"
	"github.com/anitachen83-jpg/portfolio-management/internal/reportGenerator/xslsxGenerator"
	"github.com/anitachen83-jpg/portfolio-management/internal/scheduler"
	"github.com/anitachen83-jpg/portfolio-management/internal/service/portfolioService"
	"github.com/anitachen83-jpg/portfolio-management/internal/transport/httpapi"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(cfg, pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)

	quoteApiClient := quoteApi.New(cfg)

	reportGenerator := xslsxGenerator.New()

	var cloudStorage portfolioService.CloudStorage
	var driveApi *googleDriveApi.GoogleDriveApi
	if cfg.GoogleDrive.Enabled {
		driveApi = googleDriveApi.New(ctx, cfg)
		cloudStorage = driveApi
	}

	portfolioSrv := portfolioService.New(pgRepo, redisCache, quoteApiClient, reportGenerator, cloudStorage)

	sched := scheduler.New()
	sched.NewCrontabJob("recalculate holdings", portfolioSrv.RecalculateAllJob, cfg.Jobs.RecalculateCrontab, false)
	sched.NewIntervalJob("refresh quotes", portfolioSrv.RefreshQuotes, cfg.Jobs.RefreshQuotesInterval, true)
	if driveApi != nil {
		sched.NewIntervalJob("drive cleanup", driveApi.DeleteOldFiles, cfg.Jobs.DriveCleanupInterval, false)
	}
	sched.Start()
	defer sched.Stop()

	ctrl := httpapi.NewController(portfolioSrv)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      httpapi.NewRouter(ctrl),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		slog.Info("http server started", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case <-interrupt:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", slog.String("err", err.Error()))
	}
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
