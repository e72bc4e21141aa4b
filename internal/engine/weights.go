package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"accreditation-workers/internal/models"
)

// Weights maps each KPI to its weight in the composite score.
type Weights map[models.KPI]float64

var ErrAllWeightsZero = errors.New("At least one KPI weight must be greater than zero")

// ParseWeights resolves a raw weight payload against the defaults. Keys may be full KPI
// keys or short selector names; KPIs not mentioned keep their default weight. Two keys
// naming the same KPI are rejected.
func ParseWeights(raw map[string]float64, defaults Weights, max, step float64) (Weights, error) {
	w := make(Weights, len(models.AllKPIs))
	for _, k := range models.AllKPIs {
		if v, ok := defaults[k]; ok {
			w[k] = v
		} else {
			w[k] = 1
		}
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	seen := make(map[models.KPI]string, len(keys))
	for _, key := range keys {
		k, err := models.ParseKPI(key)
		if err != nil {
			return nil, fmt.Errorf("invalid weight key %q", key)
		}
		if prev, dup := seen[k]; dup {
			return nil, fmt.Errorf("weight for %s given more than once (%q and %q)", k, prev, key)
		}
		seen[k] = key
		w[k] = raw[key]
	}

	if err := w.Validate(max, step); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks every weight is inside [0, max] on the step grid and that at least one
// is positive.
func (w Weights) Validate(max, step float64) error {
	positive := false
	for _, k := range models.AllKPIs {
		v := w[k]
		if math.IsNaN(v) || v < 0 || v > max {
			return fmt.Errorf("weight for %s must be between 0 and %g, got %g", k, max, v)
		}
		if step > 0 {
			q := v / step
			if math.Abs(q-math.Round(q)) > 1e-9 {
				return fmt.Errorf("weight for %s must be a multiple of %g, got %g", k, step, v)
			}
		}
		if v > 0 {
			positive = true
		}
	}
	if !positive {
		return ErrAllWeightsZero
	}
	return nil
}

// Composite returns the weighted mean over the KPIs present in kpis. ok is false when the
// present KPIs carry no weight at all.
func (w Weights) Composite(kpis models.KPIValues) (score float64, ok bool) {
	var sum, total float64
	for _, k := range models.AllKPIs {
		v := kpis.Get(k)
		if v == nil {
			continue
		}
		sum += w[k] * *v
		total += w[k]
	}
	if total == 0 {
		return 0, false
	}
	return sum / total, true
}
