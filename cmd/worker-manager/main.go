// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hotel-search/internal/common/camunda"
	"hotel-search/internal/common/config"
	"hotel-search/internal/common/database"
	"hotel-search/internal/common/logger"
	"hotel-search/internal/common/observability"
	"hotel-search/internal/hotel"

	gh "hotel-search/internal/workers/hotel/get-hotel"
	hf "hotel-search/internal/workers/hotel/hotel-filters"
	hs "hotel-search/internal/workers/hotel/hotel-suggestions"
	sh "hotel-search/internal/workers/hotel/search-hotels"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting hotel search worker manager",
		zap.String("environment", cfg.App.Environment),
		zap.String("index", cfg.Search.Index),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return esClient.Ping(pingCtx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if info, err := esClient.Info(ctx); err == nil {
		zapLog.Info("Elasticsearch connected successfully",
			zap.String("cluster", info.ClusterName),
			zap.String("version", info.Version.Number),
		)
	}

	service := hotel.NewService(esClient.Client, cfg.Search.Index, log, obs)

	// --- PostgreSQL (optional) ---
	var repo *hotel.Repository
	if cfg.Database.Postgres.Enabled() {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.ConnectPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		repo = hotel.NewRepository(pg.DB)
		zapLog.Info("PostgreSQL connected successfully")
	} else {
		zapLog.Info("PostgreSQL not configured, get-hotel worker disabled")
	}

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(ctx, cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Workers ---
	var workers []worker.JobWorker
	start := func(taskType string, newHandler func() (worker.JobHandler, error)) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("Worker disabled", zap.String("taskType", taskType))
			return
		}
		handler, err := newHandler()
		if err != nil {
			zapLog.Fatal("failed to create handler", zap.String("taskType", taskType), zap.Error(err))
		}
		workers = append(workers, camunda.StartWorker(zeebe.Zeebe(), taskType, config.GetWorkerConfig(cfg, taskType), handler, log))
	}

	start(sh.TaskType, func() (worker.JobHandler, error) {
		h, err := sh.NewHandler(sh.HandlerOptions{AppConfig: cfg, Service: service, Logger: log})
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	start(hf.TaskType, func() (worker.JobHandler, error) {
		h, err := hf.NewHandler(hf.HandlerOptions{AppConfig: cfg, Service: service, Logger: log})
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	start(hs.TaskType, func() (worker.JobHandler, error) {
		h, err := hs.NewHandler(hs.HandlerOptions{AppConfig: cfg, Service: service, Logger: log})
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	if repo != nil {
		start(gh.TaskType, func() (worker.JobHandler, error) {
			h, err := gh.NewHandler(gh.HandlerOptions{AppConfig: cfg, Repository: repo, Logger: log})
			if err != nil {
				return nil, err
			}
			return h.Handle, nil
		})
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		readyCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := esClient.Ping(readyCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status, detail string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if detail != "" {
		body["error"] = detail
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
