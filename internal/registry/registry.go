// Package registry reads evaluated batches and their KPI results from the batch store.
// It never writes.
package registry

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/common/logger"
	"accreditation-workers/internal/common/metrics"
	"accreditation-workers/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// ErrBatchNotFound is returned when an addressed batch does not exist.
var ErrBatchNotFound = stderrors.New("batch not found")

// BatchFilter narrows ListEligibleBatches. Zero values mean "any".
type BatchFilter struct {
	Mode           models.EvaluationMode
	DataSource     models.DataSource
	DepartmentName string
}

// Registry is the read side of the batch store used by the workers.
type Registry interface {
	ListEligibleBatches(ctx context.Context, filter BatchFilter) ([]models.Batch, error)
	GetBatch(ctx context.Context, id string) (*models.Batch, error)
	GetKpiSnapshot(ctx context.Context, id string) (*models.KPISnapshot, error)
	GetYearlyKpis(ctx context.Context, institution, department string) ([]models.YearlyKPIs, error)
}

// Postgres implements Registry over the batches, files and compliance_flags tables.
type Postgres struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	log     logger.Logger
}

var _ Registry = (*Postgres)(nil)

func NewPostgres(db *sql.DB, log logger.Logger) *Postgres {
	return &Postgres{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		log:     log.WithFields(map[string]interface{}{"component": "registry"}),
	}
}

func (p *Postgres) ListEligibleBatches(ctx context.Context, filter BatchFilter) ([]models.Batch, error) {
	defer observe(models.QueryTypeEligibleBatches, time.Now())

	query, args, err := eligibleBatchesQuery(p.builder, filter).ToSql()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, p.mapError(ctx, models.QueryTypeEligibleBatches, err)
	}
	defer rows.Close()

	batches := []models.Batch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, p.mapError(ctx, models.QueryTypeEligibleBatches, err)
		}
		batches = append(batches, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, p.mapError(ctx, models.QueryTypeEligibleBatches, err)
	}

	p.log.Debug("listed eligible batches", map[string]interface{}{
		"count":      len(batches),
		"mode":       string(filter.Mode),
		"dataSource": string(filter.DataSource),
	})
	return batches, nil
}

func (p *Postgres) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	defer observe(models.QueryTypeBatch, time.Now())

	query, args, err := batchQuery(p.builder, id).ToSql()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	b, err := scanBatch(p.db.QueryRowContext(ctx, query, args...))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, p.mapError(ctx, models.QueryTypeBatch, err)
	}
	return b, nil
}

func (p *Postgres) GetKpiSnapshot(ctx context.Context, id string) (*models.KPISnapshot, error) {
	defer observe(models.QueryTypeKpiSnapshot, time.Now())

	query, args, err := snapshotQuery(p.builder, id).ToSql()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	var (
		kpiRaw         []byte
		sufficiencyRaw []byte
		compliance     int
	)
	err = p.db.QueryRowContext(ctx, query, args...).Scan(&kpiRaw, &sufficiencyRaw, &compliance)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, p.mapError(ctx, models.QueryTypeKpiSnapshot, err)
	}

	snap := &models.KPISnapshot{
		BatchID:            id,
		SufficiencyPercent: decodeSufficiency(sufficiencyRaw),
		ComplianceCount:    compliance,
	}

	kpis, ok, err := decodeKPIResults(kpiRaw)
	if err != nil {
		p.log.Warn("unreadable kpi_results, treating batch as incomplete", map[string]interface{}{
			"batchId": id,
			"error":   err.Error(),
		})
	}
	if !ok {
		snap.Incomplete = true
		return snap, nil
	}
	snap.KPIs = kpis
	snap.OverallScore = kpis.Overall
	return snap, nil
}

func (p *Postgres) GetYearlyKpis(ctx context.Context, institution, department string) ([]models.YearlyKPIs, error) {
	defer observe(models.QueryTypeYearlyKpis, time.Now())

	query, args, err := yearlyQuery(p.builder, institution, department).ToSql()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, p.mapError(ctx, models.QueryTypeYearlyKpis, err)
	}
	defer rows.Close()

	var records []yearlyRecord
	for rows.Next() {
		var (
			batchID      string
			academicYear string
			kpiRaw       []byte
			createdAt    time.Time
		)
		if err := rows.Scan(&batchID, &academicYear, &kpiRaw, &createdAt); err != nil {
			return nil, p.mapError(ctx, models.QueryTypeYearlyKpis, err)
		}
		year, ok := ParseAcademicYear(academicYear)
		if !ok {
			p.log.Debug("skipping batch without a usable academic year", map[string]interface{}{
				"batchId":      batchID,
				"academicYear": academicYear,
			})
			continue
		}
		kpis, ok, err := decodeKPIResults(kpiRaw)
		if err != nil || !ok {
			continue
		}
		records = append(records, yearlyRecord{year: year, kpis: kpis, createdAt: createdAt})
	}
	if err := rows.Err(); err != nil {
		return nil, p.mapError(ctx, models.QueryTypeYearlyKpis, err)
	}

	return latestPerYear(records), nil
}

// mapError turns a driver failure into the error the job handler reports.
func (p *Postgres) mapError(ctx context.Context, queryType models.QueryType, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(string(queryType))
	}
	p.log.Error("registry query failed", map[string]interface{}{
		"queryType": string(queryType),
		"error":     err.Error(),
	})
	return errors.NewRegistryUnavailableError(string(queryType), err)
}

func observe(queryType models.QueryType, start time.Time) {
	metrics.RegistryQueryDuration.WithLabelValues(string(queryType)).Observe(time.Since(start).Seconds())
}
