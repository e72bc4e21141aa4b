package engine

import "accreditation-workers/internal/models"

// CategoryWinner is the best institution for one KPI. On a tie, IsTie is set and
// TiedWith lists every tied label in input order, the winner included.
type CategoryWinner struct {
	KPI           models.KPI `json:"kpi"`
	KPIName       string     `json:"kpiName"`
	WinnerBatchID string     `json:"winnerBatchId"`
	WinnerLabel   string     `json:"winnerLabel"`
	WinnerName    string     `json:"winnerName"`
	WinnerValue   float64    `json:"winnerValue"`
	IsTie         bool       `json:"isTie"`
	TiedWith      []string   `json:"tiedWith"`
}

// ResolveWinners returns one winner per KPI that has at least one value, in canonical KPI
// order. institutions must be in input order; the first institution holding the maximum
// wins. Values are compared with exact equality.
func ResolveWinners(institutions []ComparisonInstitution) []CategoryWinner {
	out := make([]CategoryWinner, 0, len(models.AllKPIs))
	for _, k := range models.AllKPIs {
		kpi := k
		w := resolve(institutions, func(inst ComparisonInstitution) *float64 {
			return inst.KPIs.Get(kpi)
		})
		if w == nil {
			continue
		}
		w.KPI = kpi
		w.KPIName = kpi.DisplayName()
		out = append(out, *w)
	}
	return out
}

// ResolveOverallWinner applies the same rule to the overall score of each institution.
func ResolveOverallWinner(institutions []ComparisonInstitution) *CategoryWinner {
	w := resolve(institutions, func(inst ComparisonInstitution) *float64 {
		v := inst.OverallScore
		return &v
	})
	if w == nil {
		return nil
	}
	w.KPI = models.KPIOverall
	w.KPIName = models.KPIOverall.DisplayName()
	return w
}

func resolve(institutions []ComparisonInstitution, value func(ComparisonInstitution) *float64) *CategoryWinner {
	var (
		best   *float64
		winner ComparisonInstitution
		tied   []string
	)
	for _, inst := range institutions {
		v := value(inst)
		if v == nil {
			continue
		}
		switch {
		case best == nil || *v > *best:
			best = v
			winner = inst
			tied = []string{inst.ShortLabel}
		case *v == *best:
			tied = append(tied, inst.ShortLabel)
		}
	}
	if best == nil {
		return nil
	}

	w := &CategoryWinner{
		WinnerBatchID: winner.BatchID,
		WinnerLabel:   winner.ShortLabel,
		WinnerName:    winner.InstitutionName,
		WinnerValue:   *best,
		IsTie:         len(tied) > 1,
		TiedWith:      []string{},
	}
	if w.IsTie {
		w.TiedWith = tied
	}
	return w
}
