package scenario

import "strings"

const (
	// DefaultHistoricalBoundary is the first cash-flow index that simulations
	// may rewrite. Earlier periods are history.
	DefaultHistoricalBoundary = 3
	// DefaultCostPerEmployee is the monthly cost of one employee, in currency units.
	DefaultCostPerEmployee = 4000.0
)

// staffCategoryNames are the only labels that receive headcount cost changes.
// Matching is exact and case-sensitive.
var staffCategoryNames = []string{"Staff", "Salaries"}

// Assumptions are the constants a simulation runs with.
type Assumptions struct {
	HistoricalBoundary int     `yaml:"historical_boundary"`
	CostPerEmployee    float64 `yaml:"cost_per_employee"`
}

// DefaultAssumptions returns the reference values.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		HistoricalBoundary: DefaultHistoricalBoundary,
		CostPerEmployee:    DefaultCostPerEmployee,
	}
}

// AssumptionsFor resolves the assumptions for a business type. Zero fields in
// an override fall back to base. Type lookup ignores case.
func AssumptionsFor(businessType string, base Assumptions, overrides map[string]Assumptions) Assumptions {
	out := base
	for key, o := range overrides {
		if !strings.EqualFold(key, businessType) {
			continue
		}
		if o.HistoricalBoundary > 0 {
			out.HistoricalBoundary = o.HistoricalBoundary
		}
		if o.CostPerEmployee > 0 {
			out.CostPerEmployee = o.CostPerEmployee
		}
		break
	}
	return out
}
