package compareinstitutions

import "accreditation-workers/internal/engine"

type Input struct {
	BatchIDs []string `json:"batchIds"`
}

// Output flattens the comparison result into the job variables.
type Output struct {
	engine.ComparisonResult
}
