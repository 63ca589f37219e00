package model

// ExpenseCategory is one slice of the expense breakdown. Share is a percentage
// of monthly revenue consumed by the category.
type ExpenseCategory struct {
	Name  string  `json:"name" yaml:"name"`
	Share float64 `json:"share" yaml:"share"`
}

// CashFlowPoint is one period of the cash-flow series. Actual is nil for
// periods that have not happened yet.
type CashFlowPoint struct {
	Period    string   `json:"period" yaml:"period"`
	Actual    *float64 `json:"actual" yaml:"actual"`
	Predicted *float64 `json:"predicted" yaml:"predicted"`
}

// BusinessState is a snapshot of one business's financials.
// Treat it as a value: operations return a new state instead of mutating.
type BusinessState struct {
	ID                string            `json:"id" yaml:"id"`
	Name              string            `json:"name" yaml:"name"`
	Type              string            `json:"type" yaml:"type"`
	CurrentCash       float64           `json:"current_cash" yaml:"current_cash"`
	MonthlyRevenue    float64           `json:"monthly_revenue" yaml:"monthly_revenue"`
	Employees         int               `json:"employees" yaml:"employees"`
	ExpenseCategories []ExpenseCategory `json:"expense_categories" yaml:"expense_categories"`
	CashFlow          []CashFlowPoint   `json:"cash_flow" yaml:"cash_flow"`
}

// Clone returns a deep copy of the state.
func (s BusinessState) Clone() BusinessState {
	out := s
	if s.ExpenseCategories != nil {
		out.ExpenseCategories = make([]ExpenseCategory, len(s.ExpenseCategories))
		copy(out.ExpenseCategories, s.ExpenseCategories)
	}
	if s.CashFlow != nil {
		out.CashFlow = make([]CashFlowPoint, len(s.CashFlow))
		for i, p := range s.CashFlow {
			out.CashFlow[i] = CashFlowPoint{
				Period:    p.Period,
				Actual:    copyFloat(p.Actual),
				Predicted: copyFloat(p.Predicted),
			}
		}
	}
	return out
}

// TotalExpenseShare sums the shares of all expense categories.
func (s BusinessState) TotalExpenseShare() float64 {
	total := 0.0
	for _, c := range s.ExpenseCategories {
		total += c.Share
	}
	return total
}

// OwnerName returns the possessive prefix of the business name
// ("Sarah's Restaurant" -> "Sarah"), or the full name when there is none.
func (s BusinessState) OwnerName() string {
	for i := 0; i+1 < len(s.Name); i++ {
		if s.Name[i] == '\'' && s.Name[i+1] == 's' {
			return s.Name[:i]
		}
	}
	return s.Name
}

// Float returns a pointer to v, for building cash-flow points.
func Float(v float64) *float64 { return &v }

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
