package engine

import (
	"fmt"
	"sort"
	"strings"

	"accreditation-workers/internal/models"
)

// RankingRequest is a validated ranking request. Weights is only used for the composite
// selector; nil means the settings defaults.
type RankingRequest struct {
	Selector models.Selector
	TopN     int
	Weights  Weights
}

type RankedInstitution struct {
	Rank            int              `json:"rank"`
	BatchID         string           `json:"batchId"`
	InstitutionName string           `json:"institutionName"`
	ShortLabel      string           `json:"shortLabel"`
	Score           float64          `json:"score"`
	KPIs            models.KPIValues `json:"kpis"`
	Strengths       []KPIReading     `json:"strengths"`
	Weaknesses      []KPIReading     `json:"weaknesses"`
}

type RankingResult struct {
	Valid               bool                `json:"valid"`
	ValidationMessage   string              `json:"validationMessage,omitempty"`
	KPI                 string              `json:"kpi"`
	RankingLabel        string              `json:"rankingLabel"`
	TopN                int                 `json:"topN"`
	Weights             Weights             `json:"weights,omitempty"`
	Institutions        []RankedInstitution `json:"institutions"`
	InsufficientBatches []SkippedBatch      `json:"insufficientBatches"`
	Skipped             []SkippedBatch      `json:"skippedBatches"`
}

// Rank orders the requested batches by the selected KPI or by the weighted composite,
// best first, ties broken by batch id. Institutions without the data needed for the score
// are reported in InsufficientBatches instead of being given a score.
func Rank(candidates []Candidate, req RankingRequest, s Settings) *RankingResult {
	res := &RankingResult{
		KPI:                 req.Selector.String(),
		RankingLabel:        req.Selector.Label(),
		TopN:                req.TopN,
		Institutions:        []RankedInstitution{},
		InsufficientBatches: []SkippedBatch{},
		Skipped:             []SkippedBatch{},
	}

	if len(candidates) < s.MinInstitutions {
		res.ValidationMessage = fmt.Sprintf("At least %d batches must be selected for ranking.", s.MinInstitutions)
		return res
	}
	if len(candidates) > s.MaxInstitutions {
		res.ValidationMessage = fmt.Sprintf("Maximum %d institutions for ranking", s.MaxInstitutions)
		return res
	}
	if !s.validTopN(req.TopN) {
		res.ValidationMessage = fmt.Sprintf("topN must be one of %s", joinInts(s.TopNOptions))
		return res
	}

	weights := req.Weights
	if req.Selector.Composite {
		if weights == nil {
			weights = s.DefaultWeights
		}
		if err := weights.Validate(s.WeightMax, s.WeightStep); err != nil {
			res.ValidationMessage = err.Error()
			return res
		}
		res.Weights = weights
	}

	admitted, skipped := admit(candidates)
	res.Skipped = skipped
	labels := newLabeler()

	ranked := make([]RankedInstitution, 0, len(admitted))
	for _, c := range admitted {
		kpis := c.Snapshot.KPIs
		if kpis.Overall == nil {
			kpis.Overall = c.Snapshot.OverallScore
		}

		var (
			score float64
			ok    bool
		)
		if req.Selector.Composite {
			score, ok = weights.Composite(kpis)
			if !ok {
				res.InsufficientBatches = append(res.InsufficientBatches, SkippedBatch{BatchID: c.BatchID, Reason: ReasonNoWeightedKPIs})
				continue
			}
		} else {
			v := kpis.Get(req.Selector.KPI)
			if v == nil {
				res.InsufficientBatches = append(res.InsufficientBatches, SkippedBatch{BatchID: c.BatchID, Reason: "missing_" + string(req.Selector.KPI)})
				continue
			}
			score = *v
		}

		strengths, weaknesses := Classify(kpis, s.Thresholds)
		ranked = append(ranked, RankedInstitution{
			BatchID:         c.Batch.ID,
			InstitutionName: c.Batch.InstitutionName,
			ShortLabel:      labels.next(c.Batch.InstitutionName, c.Batch.AcademicYear, c.Batch.ID),
			Score:           score,
			KPIs:            kpis,
			Strengths:       strengths,
			Weaknesses:      weaknesses,
		})
	}

	if len(ranked) < s.MinInstitutions {
		res.ValidationMessage = fmt.Sprintf(
			"Only %d institution(s) have data for %s. Need at least %d for ranking.",
			len(ranked), res.RankingLabel, s.MinInstitutions,
		)
		return res
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].BatchID < ranked[j].BatchID
	})
	if len(ranked) > req.TopN {
		ranked = ranked[:req.TopN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	res.Valid = true
	res.Institutions = ranked
	return res
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
