// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bizplan-workers/internal/bootstrap"
	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/observability"
	"bizplan-workers/internal/render"

	ibp "bizplan-workers/internal/workers/businessplan/import-business-plan"
	rbp "bizplan-workers/internal/workers/businessplan/render-business-plan"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	if err := config.ValidateCamunda(cfg); err != nil {
		zapLog.Fatal("invalid camunda config", zap.Error(err))
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zc, err := camunda.Connect(ctx, camunda.ConfigFromApp(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Remote section API ---
	remote := bootstrap.NewRemote(ctx, cfg, log)
	if !remote.Client.HasToken() {
		zapLog.Warn("no remote credential configured, section requests will be unauthenticated")
	}

	// --- Workers ---
	importCfg := ibp.ConfigFromWorker(cfg.Workers[ibp.TaskType], cfg.Remote)
	importHandler := ibp.NewHandler(
		importCfg,
		log,
		bootstrap.NewImporter(remote, log, obs, importCfg.LenientFallback),
		obs,
	)
	renderHandler := rbp.NewHandler(
		rbp.ConfigFromWorker(cfg.Workers[rbp.TaskType], cfg.Render),
		log,
		render.New(),
		obs,
	)

	workers := []*camunda.Worker{
		camunda.StartWorker(zc.Zeebe(), ibp.TaskType, cfg.Workers[ibp.TaskType], importHandler.Handle, log),
		camunda.StartWorker(zc.Zeebe(), rbp.TaskType, cfg.Workers[rbp.TaskType], renderHandler.Handle, log),
	}
	zapLog.Info("Workers registered", zap.Int("count", countOpen(workers)))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           newMux(zc, remote.Client),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := zc.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := remote.Close(); err != nil {
		zapLog.Error("Error closing response cache", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down observability", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped gracefully")
}

func countOpen(workers []*camunda.Worker) int {
	n := 0
	for _, w := range workers {
		if w != nil {
			n++
		}
	}
	return n
}

type gatewayChecker interface {
	HealthCheck(ctx context.Context) error
}

type remoteChecker interface {
	Health(ctx context.Context) bool
}

// newMux serves liveness, readiness and Prometheus metrics. Readiness needs
// the Zeebe gateway; the remote API only degrades it, since the importer
// falls back to caller data.
func newMux(gateway gatewayChecker, remote remoteChecker) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status": "ready",
			"zeebe":  "up",
			"remote": "up",
			"time":   time.Now().Format(time.RFC3339),
		}
		code := http.StatusOK

		if err := gateway.HealthCheck(r.Context()); err != nil {
			body["status"] = "not ready"
			body["zeebe"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if !remote.Health(r.Context()) {
			body["remote"] = "down"
			if code == http.StatusOK {
				body["status"] = "degraded"
			}
		}
		writeStatus(w, code, body)
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
