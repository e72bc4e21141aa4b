package engine

import (
	"testing"
	"unicode/utf8"

	"accreditation-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	kpis := models.KPIValues{
		FSR:            models.Float(75),
		Infrastructure: models.Float(60),
		Placement:      models.Float(59.9),
		Overall:        models.Float(92),
	}

	strengths, weaknesses := Classify(kpis, DefaultSettings().Thresholds)

	require.Len(t, strengths, 2)
	assert.Equal(t, models.KPIFSR, strengths[0].KPI)
	assert.Equal(t, "FSR Score", strengths[0].Name)
	assert.Equal(t, models.KPIOverall, strengths[1].KPI)

	require.Len(t, weaknesses, 1)
	assert.Equal(t, models.KPIPlacement, weaknesses[0].KPI)
	assert.Equal(t, 59.9, weaknesses[0].Value)
}

func TestClassify_NothingPresent(t *testing.T) {
	strengths, weaknesses := Classify(models.KPIValues{}, DefaultSettings().Thresholds)

	assert.NotNil(t, strengths)
	assert.NotNil(t, weaknesses)
	assert.Empty(t, strengths)
	assert.Empty(t, weaknesses)
}

func TestLabeler(t *testing.T) {
	tests := []struct {
		name        string
		institution string
		year        string
		batchID     string
		expected    string
	}{
		{name: "initials", institution: "Indian Institute of Technology Delhi", year: "2024-25", expected: "IITD 24-25"},
		{name: "caps word kept", institution: "NIT Trichy", year: "2023-2024", expected: "NITT 23-24"},
		{name: "capped length", institution: "Sri Venkateswara Rao Memorial Engineering Research Academy Trust Hyderabad", year: "2024-25", expected: "SVRMERAT 24-25"},
		{name: "no name", institution: "", year: "2024-25", batchID: "batch-00af31", expected: "INST-af31 24-25"},
		{name: "unusual year", institution: "Alpha College", year: "AY24", expected: "AC AY24"},
		{name: "no year", institution: "Alpha College", year: "", expected: "AC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, newLabeler().next(tt.institution, tt.year, tt.batchID))
		})
	}
}

func TestLabeler_Collisions(t *testing.T) {
	l := newLabeler()
	assert.Equal(t, "AC 24-25", l.next("Alpha College", "2024-25", "1"))
	assert.Equal(t, "AC 24-25 #2", l.next("Alpha College", "2024-25", "2"))
	assert.Equal(t, "AC 24-25 #3", l.next("Arya College", "2024-25", "3"))
}

func TestLabeler_NonLatinNames(t *testing.T) {
	tests := []struct {
		name        string
		institution string
		expected    string
	}{
		{name: "devanagari initials", institution: "भारतीय प्रौद्योगिकी संस्थान", expected: "भपस 24-25"},
		{name: "greek caps capped", institution: "ΕΘΝΙΚΟ ΜΕΤΣΟΒΙΟ ΠΟΛΥΤΕΧΝΕΙΟ", expected: "ΕΘΝΙΚΟΜΕ 24-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newLabeler().next(tt.institution, "2024-25", "batch-1")
			assert.True(t, utf8.ValidString(got))
			assert.Equal(t, tt.expected, got)
		})
	}

	l := newLabeler()
	assert.Equal(t, "भपस 24-25", l.next("भारतीय प्रौद्योगिकी संस्थान", "2024-25", "1"))
	assert.Equal(t, "भपस 24-25 #2", l.next("भारतीय प्रबंधन संस्थान", "2024-25", "2"))
}

func TestHighlights(t *testing.T) {
	m := Matrix{
		models.KPIFSR:           {"A": models.Float(80), "B": models.Float(80), "C": models.Float(55)},
		models.KPIPlacement:     {"A": models.Float(70), "B": models.Float(65), "C": nil},
		models.KPILabCompliance: {"A": nil, "B": nil, "C": nil},
	}

	h := Highlights(m, []string{"A", "B", "C"}, 60)

	require.Contains(t, h, models.KPIFSR)
	assert.Equal(t, []string{"A", "B"}, h[models.KPIFSR].Best)
	assert.Equal(t, []string{"C"}, h[models.KPIFSR].Worst)

	require.Contains(t, h, models.KPIPlacement)
	assert.Equal(t, []string{"A"}, h[models.KPIPlacement].Best)
	assert.Empty(t, h[models.KPIPlacement].Worst, "minimum above threshold is not flagged")

	assert.NotContains(t, h, models.KPILabCompliance)
}

func TestResolveWinners_SkipsEmptyColumns(t *testing.T) {
	institutions := []ComparisonInstitution{
		{BatchID: "A", ShortLabel: "A", OverallScore: 70, KPIs: models.KPIValues{Infrastructure: models.Float(60)}},
		{BatchID: "B", ShortLabel: "B", OverallScore: 72, KPIs: models.KPIValues{Infrastructure: models.Float(60)}},
	}

	winners := ResolveWinners(institutions)

	require.Len(t, winners, 1)
	assert.Equal(t, models.KPIInfrastructure, winners[0].KPI)
	assert.Equal(t, "A", winners[0].WinnerBatchID)
	assert.True(t, winners[0].IsTie)
	assert.Equal(t, []string{"A", "B"}, winners[0].TiedWith)

	overall := ResolveOverallWinner(institutions)
	require.NotNil(t, overall)
	assert.Equal(t, "B", overall.WinnerBatchID)
	assert.False(t, overall.IsTie)
	assert.Equal(t, "B leads with overall score of 72.0", interpret(overall, institutions, 0)[0])
}

func TestInterpret_ThreeWayTie(t *testing.T) {
	winner := &CategoryWinner{
		KPI:           models.KPIOverall,
		WinnerBatchID: "A",
		WinnerLabel:   "AC 24-25",
		WinnerValue:   80,
		IsTie:         true,
		TiedWith:      []string{"AC 24-25", "BC 24-25", "CC 24-25"},
	}
	institutions := []ComparisonInstitution{
		{BatchID: "A", ShortLabel: "AC 24-25", ComplianceCount: 2},
		{BatchID: "B", ShortLabel: "BC 24-25", ComplianceCount: 1},
		{BatchID: "C", ShortLabel: "CC 24-25", ComplianceCount: 3},
	}

	notes := interpret(winner, institutions, 1)

	assert.Equal(t, []string{
		"AC 24-25 tied with BC 24-25, CC 24-25 on overall score of 80.0",
		"1 batch(es) excluded from comparison",
	}, notes)
}
