package engine

import "accreditation-workers/internal/models"

// MatrixHighlight marks the cells a dashboard colours: every label at the column maximum,
// and every label at the column minimum when that minimum falls below the threshold.
type MatrixHighlight struct {
	Best  []string `json:"best"`
	Worst []string `json:"worst"`
}

// Highlights maps a comparison matrix onto display highlights. order fixes the label order
// of the output. Columns with no values are left out.
func Highlights(m Matrix, order []string, minBelow float64) map[models.KPI]MatrixHighlight {
	out := make(map[models.KPI]MatrixHighlight, len(m))
	for _, k := range models.AllKPIs {
		col, ok := m[k]
		if !ok {
			continue
		}

		var hi, lo *float64
		for _, label := range order {
			v := col[label]
			if v == nil {
				continue
			}
			if hi == nil || *v > *hi {
				hi = v
			}
			if lo == nil || *v < *lo {
				lo = v
			}
		}
		if hi == nil {
			continue
		}

		h := MatrixHighlight{Best: []string{}, Worst: []string{}}
		for _, label := range order {
			v := col[label]
			if v == nil {
				continue
			}
			if *v == *hi {
				h.Best = append(h.Best, label)
			}
			if *lo < minBelow && *v == *lo {
				h.Worst = append(h.Worst, label)
			}
		}
		out[k] = h
	}
	return out
}

// Labels returns the short labels of institutions in their current order.
func Labels(institutions []ComparisonInstitution) []string {
	out := make([]string, len(institutions))
	for i, inst := range institutions {
		out[i] = inst.ShortLabel
	}
	return out
}
