// Package scenario applies what-if deltas to business snapshots and
// recomputes their cash-flow projection.
package scenario

import (
	"strings"

	"BizBoost/internal/calculator"
	"BizBoost/internal/model"
)

// Apply returns a new state with d applied. The input state is never
// modified; NoMatch returns it as is.
func Apply(state model.BusinessState, d model.Delta, a Assumptions) model.BusinessState {
	switch v := d.(type) {
	case model.RevenueDelta:
		out := state.Clone()
		if v.IsPercentage {
			out.MonthlyRevenue = state.MonthlyRevenue * (1 + v.Magnitude/100)
		} else {
			out.MonthlyRevenue = state.MonthlyRevenue + v.Magnitude
		}
		return out
	case model.EmployeeDelta:
		return applyHeadcount(state, v, a)
	case model.ExpenseDelta:
		return applyExpense(state, v)
	}
	return state
}

// Simulate applies d and reprojects the cash flow past the historical
// boundary. It reports false, returning state untouched, for NoMatch.
func Simulate(state model.BusinessState, d model.Delta, a Assumptions) (model.BusinessState, bool) {
	if !model.IsMatch(d) {
		return state, false
	}
	return calculator.ProjectCashFlow(Apply(state, d, a), a.HistoricalBoundary), true
}

func applyHeadcount(state model.BusinessState, d model.EmployeeDelta, a Assumptions) model.BusinessState {
	out := state.Clone()
	out.Employees = state.Employees + d.Count

	// Revenue is unchanged by hiring, so the new revenue is the current one.
	if out.MonthlyRevenue == 0 {
		return out
	}
	i := staffIndex(out.ExpenseCategories)
	if i < 0 {
		return out
	}
	cost := a.CostPerEmployee * float64(d.Count)
	share := out.ExpenseCategories[i].Share + cost/out.MonthlyRevenue*100
	out.ExpenseCategories[i].Share = floorZero(share)
	return out
}

func applyExpense(state model.BusinessState, d model.ExpenseDelta) model.BusinessState {
	out := state.Clone()
	i := categoryIndex(out.ExpenseCategories, d.Category)
	if i < 0 {
		return out
	}
	change := d.Magnitude
	if !d.IsPercentage {
		if state.MonthlyRevenue == 0 {
			return out
		}
		change = d.Magnitude / state.MonthlyRevenue * 100
	}
	out.ExpenseCategories[i].Share = floorZero(out.ExpenseCategories[i].Share + change)
	return out
}

func staffIndex(cats []model.ExpenseCategory) int {
	for i, c := range cats {
		for _, name := range staffCategoryNames {
			if c.Name == name {
				return i
			}
		}
	}
	return -1
}

// categoryIndex finds the category whose name, or first word of its name,
// equals kind ignoring case ("Food Costs" matches food).
func categoryIndex(cats []model.ExpenseCategory, kind model.ExpenseKind) int {
	for i, c := range cats {
		if strings.EqualFold(c.Name, string(kind)) {
			return i
		}
		if fields := strings.Fields(c.Name); len(fields) > 0 && strings.EqualFold(fields[0], string(kind)) {
			return i
		}
	}
	return -1
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
