package engine

import (
	"fmt"

	"accreditation-workers/internal/models"
)

// Reason codes reported for batches left out of a comparison or ranking.
const (
	ReasonDuplicateBatch       = "duplicate_batch"
	ReasonBatchNotFound        = "batch_not_found"
	ReasonBatchInvalid         = "batch_invalid"
	ReasonNoDocuments          = "no_processed_documents"
	ReasonIncompleteEvaluation = "incomplete_evaluation"
	ReasonNoOverallScore       = "no_overall_score"
	ReasonZeroSufficiency      = "zero_sufficiency"
	ReasonNoWeightedKPIs       = "no_weighted_kpis"
)

// SkippedBatch records why a requested batch did not make it into a result.
type SkippedBatch struct {
	BatchID string `json:"batchId"`
	Reason  string `json:"reason"`
}

// Candidate is one requested batch together with whatever the registry returned for it.
// Batch is nil when the registry has no such batch; Snapshot is nil when no evaluation
// could be loaded.
type Candidate struct {
	BatchID  string
	Batch    *models.Batch
	Snapshot *models.KPISnapshot
}

// CheckEligibility reports whether a batch may enter a comparison, with a reason code
// when it may not.
func CheckEligibility(b models.Batch) (bool, string) {
	if b.Status != models.BatchStatusCompleted {
		return false, fmt.Sprintf("status_%s", b.Status)
	}
	if b.IsInvalid {
		return false, ReasonBatchInvalid
	}
	if b.DocumentCount < 1 {
		return false, ReasonNoDocuments
	}
	return true, ""
}

// FilterEligible keeps the batches that may be offered for comparison, preserving order.
func FilterEligible(batches []models.Batch) []models.Batch {
	out := make([]models.Batch, 0, len(batches))
	for _, b := range batches {
		if ok, _ := CheckEligibility(b); ok {
			out = append(out, b)
		}
	}
	return out
}

// admit runs the checks shared by comparison and ranking. Every candidate ends up in
// exactly one of the two returned slices.
func admit(candidates []Candidate) ([]Candidate, []SkippedBatch) {
	seen := make(map[string]bool, len(candidates))
	admitted := make([]Candidate, 0, len(candidates))
	skipped := make([]SkippedBatch, 0)

	for _, c := range candidates {
		if seen[c.BatchID] {
			skipped = append(skipped, SkippedBatch{BatchID: c.BatchID, Reason: ReasonDuplicateBatch})
			continue
		}
		seen[c.BatchID] = true

		if c.Batch == nil {
			skipped = append(skipped, SkippedBatch{BatchID: c.BatchID, Reason: ReasonBatchNotFound})
			continue
		}
		if ok, reason := CheckEligibility(*c.Batch); !ok {
			skipped = append(skipped, SkippedBatch{BatchID: c.BatchID, Reason: reason})
			continue
		}
		if c.Snapshot == nil || c.Snapshot.Incomplete {
			skipped = append(skipped, SkippedBatch{BatchID: c.BatchID, Reason: ReasonIncompleteEvaluation})
			continue
		}
		admitted = append(admitted, c)
	}
	return admitted, skipped
}
