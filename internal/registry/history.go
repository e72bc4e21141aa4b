package registry

import (
	"context"
	stderrors "errors"
	"strings"

	"accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/models"
)

// HistoryRequest names an institution directly, or through one of its batches.
type HistoryRequest struct {
	BatchID         string
	InstitutionName string
	DepartmentName  string
}

// History is the yearly KPI series of one institution. When the request went through a
// batch that is marked invalid, InvalidBatch is set and Series is empty.
type History struct {
	InstitutionName string
	DepartmentName  string
	InvalidBatch    bool
	Series          []models.YearlyKPIs
}

// LoadHistory resolves the institution of req and loads its yearly KPIs. A batch id that
// does not exist gives a BATCH_NOT_FOUND error.
func LoadHistory(ctx context.Context, reg Registry, req HistoryRequest) (*History, error) {
	h := &History{
		InstitutionName: strings.TrimSpace(req.InstitutionName),
		DepartmentName:  strings.TrimSpace(req.DepartmentName),
	}

	if id := strings.TrimSpace(req.BatchID); id != "" {
		batch, err := reg.GetBatch(ctx, id)
		if stderrors.Is(err, ErrBatchNotFound) {
			return nil, errors.NewBatchNotFoundError(id)
		}
		if err != nil {
			return nil, err
		}
		if batch.IsInvalid {
			h.InstitutionName = batch.InstitutionName
			h.DepartmentName = batch.DepartmentName
			h.InvalidBatch = true
			h.Series = []models.YearlyKPIs{}
			return h, nil
		}
		h.InstitutionName = batch.InstitutionName
		if h.DepartmentName == "" {
			h.DepartmentName = batch.DepartmentName
		}
	}

	if h.InstitutionName == "" {
		return nil, errors.NewValidationFailedError("batchId or institutionName is required")
	}

	series, err := reg.GetYearlyKpis(ctx, h.InstitutionName, h.DepartmentName)
	if err != nil {
		return nil, err
	}
	h.Series = series
	return h, nil
}
