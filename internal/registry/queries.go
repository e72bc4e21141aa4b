package registry

import (
	"time"

	"accreditation-workers/internal/models"

	sq "github.com/Masterminds/squirrel"
)

const documentCountColumn = "(SELECT COUNT(*) FROM files f WHERE f.batch_id = b.id) AS document_count"

var batchColumns = []string{
	"b.id",
	"COALESCE(b.mode, '')",
	"COALESCE(b.status, '')",
	"COALESCE(b.institution_name, '')",
	"COALESCE(b.department_name, '')",
	"COALESCE(b.academic_year, '')",
	"COALESCE(b.is_invalid, 0)",
	"COALESCE(b.data_source, 'user')",
	"b.created_at",
	"COALESCE(b.updated_at, b.created_at)",
	documentCountColumn,
}

// eligibleBatchesQuery selects completed, valid batches that have at least one file.
func eligibleBatchesQuery(b sq.StatementBuilderType, filter BatchFilter) sq.SelectBuilder {
	q := b.Select(batchColumns...).
		From("batches b").
		Where(sq.Eq{"b.status": string(models.BatchStatusCompleted)}).
		Where(sq.Eq{"COALESCE(b.is_invalid, 0)": 0}).
		Where("EXISTS (SELECT 1 FROM files f WHERE f.batch_id = b.id)")

	if filter.Mode != "" {
		q = q.Where(sq.Eq{"b.mode": string(filter.Mode)})
	}
	if filter.DataSource != "" {
		q = q.Where(sq.Eq{"COALESCE(b.data_source, 'user')": string(filter.DataSource)})
	}
	if filter.DepartmentName != "" {
		q = q.Where(sq.Eq{"b.department_name": filter.DepartmentName})
	}

	return q.OrderBy("b.created_at DESC", "b.id")
}

func batchQuery(b sq.StatementBuilderType, id string) sq.SelectBuilder {
	return b.Select(batchColumns...).
		From("batches b").
		Where(sq.Eq{"b.id": id})
}

func snapshotQuery(b sq.StatementBuilderType, id string) sq.SelectBuilder {
	return b.Select(
		"b.kpi_results",
		"b.sufficiency_result",
		"(SELECT COUNT(*) FROM compliance_flags c WHERE c.batch_id = b.id) AS compliance_count",
	).
		From("batches b").
		Where(sq.Eq{"b.id": id})
}

// yearlyQuery returns the evaluated batches of one institution, newest first.
func yearlyQuery(b sq.StatementBuilderType, institution, department string) sq.SelectBuilder {
	q := b.Select("b.id", "COALESCE(b.academic_year, '')", "b.kpi_results", "b.created_at").
		From("batches b").
		Where(sq.Eq{"b.institution_name": institution}).
		Where(sq.Eq{"b.status": string(models.BatchStatusCompleted)}).
		Where(sq.Eq{"COALESCE(b.is_invalid, 0)": 0}).
		Where(sq.NotEq{"b.kpi_results": nil})

	if department != "" {
		q = q.Where(sq.Eq{"b.department_name": department})
	}

	return q.OrderBy("b.created_at DESC", "b.id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBatch(row rowScanner) (*models.Batch, error) {
	var (
		b         models.Batch
		mode      string
		status    string
		invalid   int
		source    string
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&b.ID,
		&mode,
		&status,
		&b.InstitutionName,
		&b.DepartmentName,
		&b.AcademicYear,
		&invalid,
		&source,
		&createdAt,
		&updatedAt,
		&b.DocumentCount,
	)
	if err != nil {
		return nil, err
	}

	b.Mode = models.EvaluationMode(mode)
	b.Status = models.BatchStatus(status)
	b.IsInvalid = invalid != 0
	b.DataSource = models.DataSource(source)
	b.CreatedAt = createdAt.UTC()
	b.UpdatedAt = updatedAt.UTC()
	return &b, nil
}
