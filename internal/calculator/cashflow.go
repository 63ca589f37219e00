package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"BizBoost/internal/model"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// ProjectedNet returns the monthly cash left after expenses, rounded to whole
// currency units with halves going up (-2.5 -> -2): revenue * (1 - totalExpenseShare/100).
// A total share above 100 gives a negative result. Non-finite inputs
// propagate as plain float results.
func ProjectedNet(revenue, totalExpenseShare float64) float64 {
	if !finite(revenue) || !finite(totalExpenseShare) {
		return math.Round(revenue * (1 - totalExpenseShare/100))
	}
	keep := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(totalExpenseShare).Div(hundred))
	return decimal.NewFromFloat(revenue).Mul(keep).Add(half).Floor().InexactFloat64()
}

// ProfitMargin returns the share of revenue not consumed by expenses, in percent.
func ProfitMargin(totalExpenseShare float64) float64 {
	if !finite(totalExpenseShare) {
		return 100 - totalExpenseShare
	}
	return hundred.Sub(decimal.NewFromFloat(totalExpenseShare)).InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ProjectCashFlow recomputes Predicted for every period at or after boundary
// from the state's revenue and expense shares. Earlier periods are copied
// unchanged, and Actual values are never touched.
func ProjectCashFlow(state model.BusinessState, boundary int) model.BusinessState {
	out := state.Clone()
	if boundary < 0 {
		boundary = 0
	}
	net := ProjectedNet(out.MonthlyRevenue, out.TotalExpenseShare())
	for i := boundary; i < len(out.CashFlow); i++ {
		out.CashFlow[i].Predicted = model.Float(net)
	}
	return out
}
