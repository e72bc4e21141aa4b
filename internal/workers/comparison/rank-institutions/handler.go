package rankinstitutions

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
	"accreditation-workers/internal/models"
	"accreditation-workers/internal/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "rank-institutions"

type Handler struct {
	config   *Config
	settings engine.Settings
	registry registry.Registry
	obs      *observability.Observability
	logger   logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Settings      *engine.Settings
	Registry      registry.Registry
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

	var settings engine.Settings
	switch {
	case opts.Settings != nil:
		settings = *opts.Settings
	case opts.AppConfig != nil:
		s, err := engine.SettingsFromConfig(opts.AppConfig.Engine)
		if err != nil {
			return nil, fmt.Errorf("invalid engine settings for %s: %w", TaskType, err)
		}
		settings = s
	default:
		settings = engine.DefaultSettings()
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	obs := opts.Observability
	if obs == nil {
		obs = &observability.Observability{}
	}

	return &Handler{
		config:   workerConfig,
		settings: settings,
		registry: opts.Registry,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
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
	log.Info("Ranking institutions", map[string]interface{}{
		"batchIds": input.BatchIDs,
		"kpi":      input.KPI,
	})

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, log, err, startTime)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		log.Error("Failed to complete job", map[string]interface{}{"error": err.Error()})
		h.obs.RecordJob(ctx, TaskType, "failed", time.Since(startTime))
		return
	}

	log.Info("Ranking completed", map[string]interface{}{
		"valid":  output.Valid,
		"ranked": len(output.Institutions),
	})
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJob(ctx, TaskType, "completed", time.Since(startTime))
}

// Execute ranks the requested batches. Request problems the user can fix, such as an
// unsupported topN or out-of-range weights, come back as an invalid result.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	selector, err := models.ParseSelector(input.KPI)
	if err != nil {
		return nil, errors.NewValidationFailedError(err.Error())
	}

	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.String("ranking.selector", selector.String()),
		attribute.Int("batch.count", len(input.BatchIDs)),
	)
	defer span.End()

	req := engine.RankingRequest{Selector: selector, TopN: h.config.DefaultTopN}
	if input.TopN != nil {
		req.TopN = *input.TopN
	}

	if selector.Composite && len(input.Weights) > 0 {
		weights, err := engine.ParseWeights(input.Weights, h.settings.DefaultWeights, h.settings.WeightMax, h.settings.WeightStep)
		if err != nil {
			res := invalidRanking(req, err.Error())
			metrics.RankingsTotal.WithLabelValues(selector.String(), metrics.Outcome(false)).Inc()
			return &Output{RankingResult: *res}, nil
		}
		req.Weights = weights
	}

	candidates, err := registry.LoadCandidates(ctx, h.registry, input.BatchIDs, h.settings.MinInstitutions, h.settings.MaxInstitutions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registry query failed")
		return nil, err
	}

	res := engine.Rank(candidates, req, h.settings)

	metrics.RankingsTotal.WithLabelValues(selector.String(), metrics.Outcome(res.Valid)).Inc()
	for _, s := range res.Skipped {
		metrics.BatchesSkipped.WithLabelValues(TaskType, s.Reason).Inc()
	}
	for _, s := range res.InsufficientBatches {
		metrics.BatchesSkipped.WithLabelValues(TaskType, s.Reason).Inc()
	}

	return &Output{RankingResult: *res}, nil
}

func invalidRanking(req engine.RankingRequest, message string) *engine.RankingResult {
	return &engine.RankingResult{
		ValidationMessage:   message,
		KPI:                 req.Selector.String(),
		RankingLabel:        req.Selector.Label(),
		TopN:                req.TopN,
		Institutions:        []engine.RankedInstitution{},
		InsufficientBatches: []engine.SkippedBatch{},
		Skipped:             []engine.SkippedBatch{},
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
