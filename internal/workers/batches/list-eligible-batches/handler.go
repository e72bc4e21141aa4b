package listeligiblebatches

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
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "list-eligible-batches"

type Handler struct {
	config   *Config
	registry registry.Registry
	obs      *observability.Observability
	logger   logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
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
	log.Info("Listing eligible batches", nil)

	var input Input
	if err := camunda.DecodeVariables(job, GetInputSchema(), &input); err != nil {
		h.failJob(client, job, log, err, startTime)
		return
	}

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

	log.Info("Eligible batches listed", map[string]interface{}{"count": output.Count})
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJob(ctx, TaskType, "completed", time.Since(startTime))
}

// Execute lists the batches that may be offered for comparison. The registry filters on
// eligibility already; the engine filter is applied again so the result never depends on
// the query alone.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, TaskType)
	defer span.End()

	filter := registry.BatchFilter{
		Mode:           models.EvaluationMode(input.Mode),
		DataSource:     models.DataSource(input.DataSource),
		DepartmentName: input.DepartmentName,
	}

	batches, err := h.registry.ListEligibleBatches(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registry query failed")
		return nil, err
	}

	eligible := engine.FilterEligible(batches)

	return &Output{
		Batches: eligible,
		Count:   len(eligible),
	}, nil
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
