package compareinstitutions

import (
	"context"
	"fmt"
	"time"

	"accreditation-workers/internal/common/camunda"
	"accreditation-workers/internal/common/config"
	"accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/common/logger"
	"accreditation-workers/internal/common/metrics"
	"accreditation-workers/internal/common/observability"
	"accreditation-workers/internal/engine"
	"accreditation-workers/internal/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "compare-institutions"

type Handler struct {
	config   *Config
	settings engine.Settings
	registry registry.Registry
	cache    *Cache
	obs      *observability.Observability
	logger   logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Settings      *engine.Settings
	Registry      registry.Registry
	Cache         *Cache
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("registry is required for %s", TaskType)
	}

	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	settings, err := resolveSettings(opts.AppConfig, opts.Settings)
	if err != nil {
		return nil, fmt.Errorf("invalid engine settings for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	obs := opts.Observability
	if obs == nil {
		obs = &observability.Observability{}
	}

	cache := opts.Cache
	if !workerConfig.CacheEnabled {
		cache = nil
	}

	return &Handler{
		config:   workerConfig,
		settings: settings,
		registry: opts.Registry,
		cache:    cache,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

func resolveSettings(appConfig *config.Config, settings *engine.Settings) (engine.Settings, error) {
	if settings != nil {
		return *settings, nil
	}
	if appConfig != nil {
		return engine.SettingsFromConfig(appConfig.Engine)
	}
	return engine.DefaultSettings(), nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	log := h.logger.WithFields(map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"correlationId":      uuid.NewString(),
	})

	var input Input
	if err := camunda.DecodeVariables(job, GetInputSchema(), &input); err != nil {
		h.failJob(client, job, log, err, startTime)
		return
	}
	log.Info("Comparing institutions", map[string]interface{}{"batchIds": input.BatchIDs})

	output, err := h.execute(ctx, log, &input)
	if err != nil {
		h.failJob(client, job, log, err, startTime)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		log.Error("Failed to complete job", map[string]interface{}{"error": err.Error()})
		h.obs.RecordJob(ctx, TaskType, "failed", time.Since(startTime))
		return
	}

	log.Info("Comparison completed", map[string]interface{}{
		"valid":        output.Valid,
		"institutions": len(output.Institutions),
		"skipped":      len(output.Skipped),
	})
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJob(ctx, TaskType, "completed", time.Since(startTime))
}

// Execute compares the requested batches. Valid results are served from and written to
// the cache when one is configured.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, h.logger, input)
}

func (h *Handler) execute(ctx context.Context, log logger.Logger, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int("batch.count", len(input.BatchIDs)))
	defer span.End()

	if res, ok := h.lookup(ctx, log, input.BatchIDs); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &Output{ComparisonResult: *res}, nil
	}

	candidates, err := registry.LoadCandidates(ctx, h.registry, input.BatchIDs, h.settings.MinInstitutions, h.settings.MaxInstitutions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registry query failed")
		return nil, err
	}

	res := engine.Compare(candidates, h.settings)

	metrics.ComparisonsTotal.WithLabelValues(metrics.Outcome(res.Valid)).Inc()
	for _, s := range res.Skipped {
		metrics.BatchesSkipped.WithLabelValues(TaskType, s.Reason).Inc()
	}

	if res.Valid {
		h.store(ctx, log, input.BatchIDs, res)
	}
	return &Output{ComparisonResult: *res}, nil
}

func (h *Handler) lookup(ctx context.Context, log logger.Logger, batchIDs []string) (*engine.ComparisonResult, bool) {
	if h.cache == nil {
		return nil, false
	}

	res, ok, err := h.cache.Get(ctx, batchIDs)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		log.Warn("Comparison cache lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	case !ok:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return res, true
}

func (h *Handler) store(ctx context.Context, log logger.Logger, batchIDs []string, res *engine.ComparisonResult) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, batchIDs, res); err != nil {
		log.Warn("Comparison cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, log logger.Logger, err error, startTime time.Time) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(startTime))
	errors.NewErrorHandler(log).HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
