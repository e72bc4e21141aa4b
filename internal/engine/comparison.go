package engine

import (
	"fmt"
	"sort"
	"strings"

	"accreditation-workers/internal/models"
)

// ComparisonInstitution is one batch projected for side-by-side display.
type ComparisonInstitution struct {
	BatchID            string                `json:"batchId"`
	InstitutionName    string                `json:"institutionName"`
	DepartmentName     string                `json:"departmentName,omitempty"`
	ShortLabel         string                `json:"shortLabel"`
	AcademicYear       string                `json:"academicYear,omitempty"`
	Mode               models.EvaluationMode `json:"mode"`
	KPIs               models.KPIValues      `json:"kpis"`
	SufficiencyPercent float64               `json:"sufficiencyPercent"`
	ComplianceCount    int                   `json:"complianceCount"`
	OverallScore       float64               `json:"overallScore"`
	Strengths          []KPIReading          `json:"strengths"`
	Weaknesses         []KPIReading          `json:"weaknesses"`
}

// Matrix maps KPI -> institution label -> value. A nil value means the KPI is absent for
// that institution.
type Matrix map[models.KPI]map[string]*float64

// ComparisonResult is the outcome of one comparison request. When Valid is false the
// matrix is empty and ValidationMessage explains why.
type ComparisonResult struct {
	Valid             bool                           `json:"validForComparison"`
	ValidationMessage string                         `json:"validationMessage,omitempty"`
	Institutions      []ComparisonInstitution        `json:"institutions"`
	Skipped           []SkippedBatch                 `json:"skippedBatches"`
	Matrix            Matrix                         `json:"comparisonMatrix"`
	Winner            *CategoryWinner                `json:"winner,omitempty"`
	CategoryWinners   []CategoryWinner               `json:"categoryWinners"`
	Highlights        map[models.KPI]MatrixHighlight `json:"highlights,omitempty"`
	Notes             []string                       `json:"notes"`
}

func newComparisonResult() *ComparisonResult {
	return &ComparisonResult{
		Institutions:    []ComparisonInstitution{},
		Skipped:         []SkippedBatch{},
		Matrix:          Matrix{},
		CategoryWinners: []CategoryWinner{},
		Notes:           []string{},
	}
}

// Compare builds the comparison for the requested batches. candidates must be in the
// order the caller selected them; that order decides ties.
func Compare(candidates []Candidate, s Settings) *ComparisonResult {
	res := newComparisonResult()

	if len(candidates) < s.MinInstitutions {
		res.ValidationMessage = fmt.Sprintf("At least %d batches must be selected for comparison.", s.MinInstitutions)
		return res
	}
	if len(candidates) > s.MaxInstitutions {
		res.ValidationMessage = fmt.Sprintf("Maximum %d institutions for comparison", s.MaxInstitutions)
		return res
	}

	admitted, skipped := admit(candidates)
	labels := newLabeler()
	institutions := make([]ComparisonInstitution, 0, len(admitted))

	for _, c := range admitted {
		snap := c.Snapshot
		if snap.OverallScore == nil {
			skipped = append(skipped, SkippedBatch{BatchID: c.BatchID, Reason: ReasonNoOverallScore})
			continue
		}
		if snap.SufficiencyPercent == 0 {
			skipped = append(skipped, SkippedBatch{BatchID: c.BatchID, Reason: ReasonZeroSufficiency})
			continue
		}
		institutions = append(institutions, project(c, labels, s.Thresholds))
	}

	res.Skipped = skipped
	res.Institutions = institutions

	if depts := departments(institutions); len(depts) > 1 {
		res.ValidationMessage = fmt.Sprintf("Cross-department comparison not allowed. Found departments: %s", strings.Join(depts, ", "))
		return res
	}
	if len(institutions) < s.MinInstitutions {
		res.ValidationMessage = fmt.Sprintf(
			"Only %d valid institution(s). Need at least %d for comparison. %d batch(es) were skipped.",
			len(institutions), s.MinInstitutions, len(skipped),
		)
		return res
	}

	res.Valid = true
	res.Matrix = buildMatrix(institutions)
	res.Winner = ResolveOverallWinner(institutions)
	res.CategoryWinners = ResolveWinners(institutions)
	res.Notes = interpret(res.Winner, institutions, len(skipped))

	sorted := make([]ComparisonInstitution, len(institutions))
	copy(sorted, institutions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OverallScore > sorted[j].OverallScore
	})
	res.Institutions = sorted
	res.Highlights = Highlights(res.Matrix, Labels(sorted), s.Thresholds.Weakness)

	return res
}

func project(c Candidate, labels *labeler, th Thresholds) ComparisonInstitution {
	b, snap := c.Batch, c.Snapshot

	kpis := snap.KPIs
	if kpis.Overall == nil {
		kpis.Overall = snap.OverallScore
	}
	strengths, weaknesses := Classify(kpis, th)

	return ComparisonInstitution{
		BatchID:            b.ID,
		InstitutionName:    b.InstitutionName,
		DepartmentName:     b.DepartmentName,
		ShortLabel:         labels.next(b.InstitutionName, b.AcademicYear, b.ID),
		AcademicYear:       b.AcademicYear,
		Mode:               b.Mode,
		KPIs:               kpis,
		SufficiencyPercent: snap.SufficiencyPercent,
		ComplianceCount:    snap.ComplianceCount,
		OverallScore:       *snap.OverallScore,
		Strengths:          strengths,
		Weaknesses:         weaknesses,
	}
}

func buildMatrix(institutions []ComparisonInstitution) Matrix {
	m := make(Matrix, len(models.AllKPIs))
	for _, k := range models.AllKPIs {
		col := make(map[string]*float64, len(institutions))
		for _, inst := range institutions {
			col[inst.ShortLabel] = inst.KPIs.Get(k)
		}
		m[k] = col
	}
	return m
}

// departments returns the distinct non-empty department names, sorted.
func departments(institutions []ComparisonInstitution) []string {
	set := make(map[string]bool)
	for _, inst := range institutions {
		if d := strings.TrimSpace(inst.DepartmentName); d != "" {
			set[d] = true
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func others(labels []string, exclude string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != exclude {
			out = append(out, l)
		}
	}
	return out
}

func interpret(winner *CategoryWinner, institutions []ComparisonInstitution, skipped int) []string {
	notes := []string{}
	if winner != nil {
		if winner.IsTie {
			notes = append(notes, fmt.Sprintf("%s tied with %s on overall score of %.1f",
				winner.WinnerLabel, strings.Join(others(winner.TiedWith, winner.WinnerLabel), ", "), winner.WinnerValue))
		} else {
			notes = append(notes, fmt.Sprintf("%s leads with overall score of %.1f", winner.WinnerLabel, winner.WinnerValue))
		}
		for _, inst := range institutions {
			if inst.BatchID == winner.WinnerBatchID && inst.ComplianceCount == 0 {
				notes = append(notes, fmt.Sprintf("%s has zero compliance issues", inst.ShortLabel))
			}
		}
	}
	if skipped > 0 {
		notes = append(notes, fmt.Sprintf("%d batch(es) excluded from comparison", skipped))
	}
	return notes
}
