package registry

import (
	"context"
	stderrors "errors"

	"accreditation-workers/internal/engine"
)

// LoadCandidates fetches the batch and KPI snapshot of every requested id, keeping the
// request order and repeated ids. Missing batches come back with a nil Batch, and
// ineligible batches without a snapshot. When the id count is outside [min, max] nothing
// is fetched, since the engine rejects the request on its size alone.
func LoadCandidates(ctx context.Context, reg Registry, ids []string, min, max int) ([]engine.Candidate, error) {
	candidates := make([]engine.Candidate, len(ids))
	for i, id := range ids {
		candidates[i].BatchID = id
	}
	if len(ids) < min || len(ids) > max {
		return candidates, nil
	}

	loaded := make(map[string]engine.Candidate, len(ids))
	for i, id := range ids {
		if c, ok := loaded[id]; ok {
			candidates[i] = c
			continue
		}

		c, err := loadCandidate(ctx, reg, id)
		if err != nil {
			return nil, err
		}
		loaded[id] = c
		candidates[i] = c
	}
	return candidates, nil
}

func loadCandidate(ctx context.Context, reg Registry, id string) (engine.Candidate, error) {
	c := engine.Candidate{BatchID: id}

	batch, err := reg.GetBatch(ctx, id)
	if stderrors.Is(err, ErrBatchNotFound) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	c.Batch = batch

	if ok, _ := engine.CheckEligibility(*batch); !ok {
		return c, nil
	}

	snap, err := reg.GetKpiSnapshot(ctx, id)
	if stderrors.Is(err, ErrBatchNotFound) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	c.Snapshot = snap
	return c, nil
}
