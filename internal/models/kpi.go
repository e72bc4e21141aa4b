// internal/models/kpi.go
package models

import (
	"fmt"
	"sort"
	"strings"
)

// KPI identifies one of the five scored accreditation metrics.
type KPI string

const (
	KPIFSR            KPI = "fsr_score"
	KPIInfrastructure KPI = "infrastructure_score"
	KPIPlacement      KPI = "placement_index"
	KPILabCompliance  KPI = "lab_compliance_index"
	KPIOverall        KPI = "overall_score"
)

// AllKPIs lists every KPI in canonical order. Iteration over KPIs always uses this order.
var AllKPIs = []KPI{KPIFSR, KPIInfrastructure, KPIPlacement, KPILabCompliance, KPIOverall}

func (k KPI) Valid() bool {
	switch k {
	case KPIFSR, KPIInfrastructure, KPIPlacement, KPILabCompliance, KPIOverall:
		return true
	}
	return false
}

func (k KPI) DisplayName() string {
	switch k {
	case KPIFSR:
		return "FSR Score"
	case KPIInfrastructure:
		return "Infrastructure Score"
	case KPIPlacement:
		return "Placement Index"
	case KPILabCompliance:
		return "Lab Compliance Index"
	case KPIOverall:
		return "Overall Score"
	}
	return string(k)
}

var kpiAliases = map[string]KPI{
	"fsr":                  KPIFSR,
	"fsr_score":            KPIFSR,
	"infrastructure":       KPIInfrastructure,
	"infrastructure_score": KPIInfrastructure,
	"infra":                KPIInfrastructure,
	"placement":            KPIPlacement,
	"placement_index":      KPIPlacement,
	"lab":                  KPILabCompliance,
	"lab_compliance":       KPILabCompliance,
	"lab_compliance_index": KPILabCompliance,
	"overall":              KPIOverall,
	"overall_score":        KPIOverall,
}

// ParseKPI resolves a KPI key or one of its short aliases.
func ParseKPI(s string) (KPI, error) {
	if k, ok := kpiAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown kpi %q", s)
}

// KPIAliases returns every accepted KPI spelling in sorted order.
func KPIAliases() []string {
	out := make([]string, 0, len(kpiAliases))
	for alias := range kpiAliases {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// KPIValues holds one optional value per KPI. A nil field means the value is absent,
// which is distinct from a score of zero.
type KPIValues struct {
	FSR            *float64 `json:"fsr_score"`
	Infrastructure *float64 `json:"infrastructure_score"`
	Placement      *float64 `json:"placement_index"`
	LabCompliance  *float64 `json:"lab_compliance_index"`
	Overall        *float64 `json:"overall_score"`
}

func (v KPIValues) Get(k KPI) *float64 {
	switch k {
	case KPIFSR:
		return v.FSR
	case KPIInfrastructure:
		return v.Infrastructure
	case KPIPlacement:
		return v.Placement
	case KPILabCompliance:
		return v.LabCompliance
	case KPIOverall:
		return v.Overall
	}
	return nil
}

func (v *KPIValues) Set(k KPI, val *float64) {
	switch k {
	case KPIFSR:
		v.FSR = val
	case KPIInfrastructure:
		v.Infrastructure = val
	case KPIPlacement:
		v.Placement = val
	case KPILabCompliance:
		v.LabCompliance = val
	case KPIOverall:
		v.Overall = val
	}
}

// Float returns a pointer to a copy of f.
func Float(f float64) *float64 {
	return &f
}
