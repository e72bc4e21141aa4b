package camunda

import (
	"testing"

	"accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobWithVariables(variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       42,
		Type:      "compare-institutions",
		Retries:   3,
		Variables: variables,
	}}
}

var batchIDsSchema = validation.JSONSchema{
	Type:     "object",
	Required: []string{"batchIds"},
	Properties: map[string]validation.Property{
		"batchIds": {Type: "array", Items: &validation.Property{Type: "string"}},
	},
	AdditionalProperties: true,
}

type batchIDsInput struct {
	BatchIDs []string `json:"batchIds"`
}

func TestDecodeVariables(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var in batchIDsInput
		err := DecodeVariables(jobWithVariables(`{"batchIds":["b-1","b-2"],"otherVar":1}`), batchIDsSchema, &in)
		require.NoError(t, err)
		assert.Equal(t, []string{"b-1", "b-2"}, in.BatchIDs)
	})

	t.Run("schema violation", func(t *testing.T) {
		var in batchIDsInput
		err := DecodeVariables(jobWithVariables(`{"batchIds":"b-1"}`), batchIDsSchema, &in)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))

		stdErr, _ := errors.AsStandardError(err)
		assert.Contains(t, stdErr.Details, "batchIds")
	})

	t.Run("unparseable variables", func(t *testing.T) {
		var in batchIDsInput
		err := DecodeVariables(jobWithVariables(`{"batchIds":`), batchIDsSchema, &in)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInputParsingFailed))
	})
}
