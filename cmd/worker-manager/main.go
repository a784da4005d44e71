// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"career-counselling/internal/bootstrap"
	"career-counselling/internal/common/camunda"
	"career-counselling/internal/common/config"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/common/observability"

	sa "career-counselling/internal/workers/assessment/score-assessment"
	so "career-counselling/internal/workers/communication/send-otp"
)

const healthAddr = ":8080"

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = bootstrap.RetryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.Dial(ctx, cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Shared backends (storage, OTP, search, archive) ---
	components, err := bootstrap.Build(ctx, cfg, obs, zapLog, bootstrap.Options{Retries: 15})
	if err != nil {
		zapLog.Fatal("backend initialization failed", zap.Error(err))
	}
	defer components.Close()

	// --- Workers ---
	workers := camunda.NewWorkers(zeebeClient.Zeebe(), zapLog)

	if wcfg := config.GetWorkerConfig(cfg, sa.TaskType); wcfg.Enabled {
		handler := sa.NewHandler(
			&sa.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			components.Store, components.Submissions, obs, log,
		)
		workers.Start(sa.TaskType, wcfg, handler.Handle)
	}

	if wcfg := config.GetWorkerConfig(cfg, so.TaskType); wcfg.Enabled {
		handler := so.NewHandler(
			&so.Config{
				Timeout:      config.GetDuration(wcfg.Timeout),
				SkipVerified: true,
			},
			components.Store, components.OTP, obs, log,
		)
		workers.Start(so.TaskType, wcfg, handler.Handle)
	}

	zapLog.Info("Workers registered", zap.Strings("taskTypes", workers.Running()))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := components.Store.Ping(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		if err := zeebeClient.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "broker unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	srv := &http.Server{Addr: healthAddr, Handler: mux}
	go func() {
		zapLog.Info("Health/Metrics server listening on " + healthAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down otel", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
