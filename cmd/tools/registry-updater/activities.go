package main

import (
	"time"

	"accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/common/validation"
	"accreditation-workers/pkg/registry"

	gf "accreditation-workers/internal/workers/analytics/get-forecast"
	gt "accreditation-workers/internal/workers/analytics/get-trends"
	leb "accreditation-workers/internal/workers/batches/list-eligible-batches"
	ci "accreditation-workers/internal/workers/comparison/compare-institutions"
	ri "accreditation-workers/internal/workers/comparison/rank-institutions"
)

type activitySpec struct {
	taskType    string
	displayName string
	description string
	category    string
	input       validation.JSONSchema
	output      validation.JSONSchema
	timeout     time.Duration
	maxJobs     int
	errorCodes  []errors.ErrorCode
	tags        []string
}

var registryErrors = []errors.ErrorCode{
	errors.ErrCodeInputParsingFailed,
	errors.ErrCodeValidationFailed,
	errors.ErrCodeRegistryUnavailable,
	errors.ErrCodeQueryTimeout,
}

func withBatchNotFound(codes []errors.ErrorCode) []errors.ErrorCode {
	return append(append([]errors.ErrorCode(nil), codes...), errors.ErrCodeBatchNotFound)
}

func activitySpecs() []activitySpec {
	return []activitySpec{
		{
			taskType:    leb.TaskType,
			displayName: "List Eligible Batches",
			description: "Lists completed, valid batches with processed documents that can be compared",
			category:    "batches",
			input:       leb.GetInputSchema(),
			output:      leb.GetOutputSchema(),
			timeout:     leb.DefaultConfig().Timeout,
			maxJobs:     leb.DefaultConfig().MaxJobsActive,
			errorCodes:  registryErrors,
			tags:        []string{"registry", "read-only"},
		},
		{
			taskType:    ci.TaskType,
			displayName: "Compare Institutions",
			description: "Builds the KPI comparison matrix, category winners and highlights for 2 to 10 batches",
			category:    "comparison",
			input:       ci.GetInputSchema(),
			output:      ci.GetOutputSchema(),
			timeout:     ci.DefaultConfig().Timeout,
			maxJobs:     ci.DefaultConfig().MaxJobsActive,
			errorCodes:  registryErrors,
			tags:        []string{"engine", "cached"},
		},
		{
			taskType:    ri.TaskType,
			displayName: "Rank Institutions",
			description: "Ranks batches by one KPI or by a weighted mix of all KPIs",
			category:    "comparison",
			input:       ri.GetInputSchema(),
			output:      ri.GetOutputSchema(),
			timeout:     ri.DefaultConfig().Timeout,
			maxJobs:     ri.DefaultConfig().MaxJobsActive,
			errorCodes:  registryErrors,
			tags:        []string{"engine"},
		},
		{
			taskType:    gt.TaskType,
			displayName: "Get KPI Trends",
			description: "Summarises the year-over-year KPI history of an institution",
			category:    "analytics",
			input:       gt.GetInputSchema(),
			output:      gt.GetOutputSchema(),
			timeout:     gt.DefaultConfig().Timeout,
			maxJobs:     gt.DefaultConfig().MaxJobsActive,
			errorCodes:  withBatchNotFound(registryErrors),
			tags:        []string{"engine", "history"},
		},
		{
			taskType:    gf.TaskType,
			displayName: "Get KPI Forecast",
			description: "Projects one KPI forward with a linear fit and a confidence band",
			category:    "analytics",
			input:       gf.GetInputSchema(),
			output:      gf.GetOutputSchema(),
			timeout:     gf.DefaultConfig().Timeout,
			maxJobs:     gf.DefaultConfig().MaxJobsActive,
			errorCodes:  withBatchNotFound(registryErrors),
			tags:        []string{"engine", "history"},
		},
	}
}

func (s activitySpec) toActivity(version string) registry.Activity {
	codes := make([]string, len(s.errorCodes))
	retries := 0
	for i, code := range s.errorCodes {
		codes[i] = string(code)
		if n := errors.GetRetryCount(code); n > retries {
			retries = n
		}
	}

	return registry.Activity{
		ID:                   s.taskType,
		DisplayName:          s.displayName,
		Description:          s.description,
		Category:             s.category,
		Version:              version,
		TaskType:             s.taskType,
		ImplementationStatus: "completed",
		InputSchema:          s.input.ToMap(),
		OutputSchema:         s.output.ToMap(),
		ErrorCodes:           codes,
		Timeout:              s.timeout.String(),
		Retries:              retries,
		MaxJobsActive:        s.maxJobs,
		Workflows:            []string{"accreditation-comparison"},
		Tags:                 s.tags,
	}
}

// generateRegistry builds the registry from the schemas the workers validate against.
func generateRegistry(version string, now time.Time) *registry.ActivityRegistry {
	specs := activitySpecs()
	reg := &registry.ActivityRegistry{
		Version:     version,
		LastUpdated: now.UTC().Format(time.RFC3339),
		Activities:  make([]registry.Activity, 0, len(specs)),
	}
	for _, s := range specs {
		reg.Activities = append(reg.Activities, s.toActivity(version))
	}
	return reg
}
