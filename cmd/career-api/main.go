// cmd/career-api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"career-counselling/internal/api"
	"career-counselling/internal/bootstrap"
	"career-counselling/internal/common/config"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/common/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting career API...",
		zap.String("environment", cfg.App.Environment),
		zap.String("storage", cfg.Storage.Mode),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Build(ctx, cfg, obs, zapLog, bootstrap.Options{})
	if err != nil {
		zapLog.Fatal("backend initialization failed", zap.Error(err))
	}
	defer components.Close()

	deps := api.Dependencies{
		Store:       components.Store,
		Submissions: components.Submissions,
		OTP:         components.OTP,
		Archive:     components.Archive,
		Logger:      log,
		ExposeOTP:   cfg.OTP.ExposeCode,
	}
	if components.Index != nil {
		deps.Search = components.Index
	}
	handler := api.NewHandler(deps)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      handler.Routes(cfg.HTTP.CORSOrigins),
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, draining requests...")
	case err := <-errCh:
		zapLog.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("otel shutdown failed", zap.Error(err))
	}

	zapLog.Info("Career API stopped gracefully")
}
