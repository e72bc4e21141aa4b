// internal/common/camunda/job.go
package camunda

import (
	"context"
	"fmt"
	"strings"

	"accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// DecodeVariables validates the job variables against schema and decodes them into out.
// Failures are returned as INPUT_PARSING_FAILED or VALIDATION_FAILED errors.
func DecodeVariables(job entities.Job, schema validation.JSONSchema, out interface{}) error {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return errors.NewInputParsingFailedError(err)
	}

	result := validation.ValidateInput(variables, schema)
	if !result.Valid {
		return errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	if err := job.GetVariablesAs(out); err != nil {
		return errors.NewInputParsingFailedError(err)
	}
	return nil
}

// CompleteJob completes job with output serialized as the job variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("failed to create complete job command: %w", err)
	}
	if _, err := request.Send(ctx); err != nil {
		return errors.NewBrokerUnavailableError("complete-job", err)
	}
	return nil
}
