package advisor

import (
	"fmt"
	"strings"

	"BizBoost/internal/calculator"
	"BizBoost/internal/model"
)

// ProfileSummary describes a business in one sentence for prompts.
func ProfileSummary(s model.BusinessState) string {
	return fmt.Sprintf("%s, a %s business with %d employees, %s current cash, and %s monthly revenue",
		s.Name, s.Type, s.Employees, calculator.FormatMoney(s.CurrentCash), calculator.FormatMoney(s.MonthlyRevenue))
}

// BuildPrompt renders the prompt sent to a text-generation service: the
// business profile followed by either the raw question or a comparison of the
// original and simulated states.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("You are a financial advisor for %s. ", ProfileSummary(req.Business)))

	if req.Scenario == nil {
		b.WriteString("Provide specific, actionable financial advice. ")
		b.WriteString("User question: ")
		b.WriteString(req.Question)
		return b.String()
	}

	orig, sim := req.Scenario.Original, req.Scenario.Simulated
	b.WriteString(fmt.Sprintf("The owner is exploring a what-if scenario: %q.\n\n", req.Scenario.Command))
	b.WriteString("Simulated changes:\n")
	b.WriteString(fmt.Sprintf("- Monthly revenue: %s -> %s\n",
		calculator.FormatMoney(orig.MonthlyRevenue), calculator.FormatMoney(sim.MonthlyRevenue)))
	b.WriteString(fmt.Sprintf("- Employees: %d -> %d\n", orig.Employees, sim.Employees))
	b.WriteString(fmt.Sprintf("- Total expenses: %s -> %s of revenue\n",
		calculator.FormatPercent(orig.TotalExpenseShare()), calculator.FormatPercent(sim.TotalExpenseShare())))
	for i, c := range sim.ExpenseCategories {
		if i < len(orig.ExpenseCategories) && orig.ExpenseCategories[i].Share != c.Share {
			b.WriteString(fmt.Sprintf("- %s: %s -> %s\n", c.Name,
				calculator.FormatPercent(orig.ExpenseCategories[i].Share), calculator.FormatPercent(c.Share)))
		}
	}
	b.WriteString(fmt.Sprintf("- Projected monthly cash: %s -> %s\n\n",
		calculator.FormatMoney(calculator.ProjectedNet(orig.MonthlyRevenue, orig.TotalExpenseShare())),
		calculator.FormatMoney(calculator.ProjectedNet(sim.MonthlyRevenue, sim.TotalExpenseShare()))))
	b.WriteString("Explain what this scenario means for the business and give short, specific, actionable recommendations.")
	return b.String()
}

// Greeting is the opening chat message for a business.
func Greeting(s model.BusinessState) string {
	return fmt.Sprintf("Hi %s! I'm your AI business advisor. I've analyzed your %s business. How can I help you today?",
		s.OwnerName(), strings.ToLower(s.Type))
}
