// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"accreditation-workers/internal/common/camunda"
	"accreditation-workers/internal/common/config"
	"accreditation-workers/internal/common/database"
	"accreditation-workers/internal/common/health"
	"accreditation-workers/internal/common/logger"
	"accreditation-workers/internal/common/observability"
	"accreditation-workers/internal/engine"
	"accreditation-workers/internal/registry"
	activities "accreditation-workers/pkg/registry"

	gf "accreditation-workers/internal/workers/analytics/get-forecast"
	gt "accreditation-workers/internal/workers/analytics/get-trends"
	leb "accreditation-workers/internal/workers/batches/list-eligible-batches"
	ci "accreditation-workers/internal/workers/comparison/compare-institutions"
	ri "accreditation-workers/internal/workers/comparison/rank-institutions"
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

// checkActivityRegistry warns when the activity registry cannot be loaded or lacks a
// running worker. Startup continues either way.
func checkActivityRegistry(path string, taskTypes []string, log *zap.Logger) {
	reg, err := activities.LoadRegistry(path)
	if err != nil {
		log.Warn("Activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("Activity registry is invalid", zap.String("path", path), zap.Error(err))
		return
	}
	for _, taskType := range taskTypes {
		if _, ok := reg.Find(taskType); !ok {
			log.Warn("Worker missing from activity registry", zap.String("taskType", taskType), zap.String("path", path))
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.NewWithConfig(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	}, zapLog)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	settings, err := engine.SettingsFromConfig(cfg.Engine)
	if err != nil {
		zapLog.Fatal("invalid engine configuration", zap.Error(err))
	}

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.UsePlaintext,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	checkers := []health.Checker{pg, zeebeClient}

	// --- Init Redis with retry (comparison cache only) ---
	var cache *ci.Cache
	if cfg.Engine.Cache.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")

		cache = ci.NewCache(rdb.Client, cfg.Engine.Cache.KeyPrefix, config.GetDuration(cfg.Engine.Cache.TTL))
		checkers = append(checkers, rdb)
	}

	reg := registry.NewPostgres(pg.DB, log)

	// --- Register workers ---
	var workers []worker.JobWorker
	var registered []string
	register := func(taskType string, handler worker.JobHandler) {
		w := camunda.StartWorker(zeebeClient.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, zapLog)
		if w != nil {
			workers = append(workers, w)
			registered = append(registered, taskType)
		}
	}

	lebHandler, err := leb.NewHandler(leb.HandlerOptions{
		AppConfig:     cfg,
		Registry:      reg,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create list-eligible-batches handler", zap.Error(err))
	}
	register(leb.TaskType, lebHandler.Handle)

	ciHandler, err := ci.NewHandler(ci.HandlerOptions{
		AppConfig:     cfg,
		Settings:      &settings,
		Registry:      reg,
		Cache:         cache,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create compare-institutions handler", zap.Error(err))
	}
	register(ci.TaskType, ciHandler.Handle)

	riHandler, err := ri.NewHandler(ri.HandlerOptions{
		AppConfig:     cfg,
		Settings:      &settings,
		Registry:      reg,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create rank-institutions handler", zap.Error(err))
	}
	register(ri.TaskType, riHandler.Handle)

	gtHandler, err := gt.NewHandler(gt.HandlerOptions{
		AppConfig:     cfg,
		Registry:      reg,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create get-trends handler", zap.Error(err))
	}
	register(gt.TaskType, gtHandler.Handle)

	gfHandler, err := gf.NewHandler(gf.HandlerOptions{
		AppConfig:     cfg,
		Registry:      reg,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create get-forecast handler", zap.Error(err))
	}
	register(gf.TaskType, gfHandler.Handle)

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))
	checkActivityRegistry(cfg.Registry.Path, registered, zapLog)

	// --- Health & Metrics Server ---
	server := health.NewServer(cfg.Server.Port, checkers, os.Stdout)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Flush(shutdownCtx); err != nil {
		zapLog.Warn("Error flushing telemetry", zap.Error(err))
	}
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
