// internal/models/selector.go
package models

import (
	"fmt"
	"strings"
)

// Selector picks what a ranking orders by: one KPI, or the weighted mix of all of them.
type Selector struct {
	KPI       KPI
	Composite bool
}

var compositeAliases = map[string]bool{
	"all":      true,
	"weighted": true,
	"multi":    true,
}

func ParseSelector(s string) (Selector, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if compositeAliases[key] {
		return Selector{Composite: true}, nil
	}
	k, err := ParseKPI(key)
	if err != nil {
		return Selector{}, fmt.Errorf("unknown kpi selector %q", s)
	}
	return Selector{KPI: k}, nil
}

// Label is the heading shown above a ranking.
func (s Selector) Label() string {
	if s.Composite {
		return "Weighted KPI Mix"
	}
	return s.KPI.DisplayName()
}

func (s Selector) String() string {
	if s.Composite {
		return "all"
	}
	return string(s.KPI)
}

// SelectorValues lists every accepted selector spelling.
func SelectorValues() []string {
	out := KPIAliases()
	return append(out, "all", "multi", "weighted")
}
