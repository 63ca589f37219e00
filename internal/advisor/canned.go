package advisor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"BizBoost/internal/calculator"
)

// Canned answers from local templates. It never fails.
type Canned struct {
	// Pick chooses a template index in [0, n). Defaults to a random choice.
	Pick func(n int) int
}

// NewCanned returns a Canned advisor with random template selection.
func NewCanned() *Canned {
	return &Canned{Pick: rand.IntN}
}

func (c *Canned) Name() string { return "canned" }

// Advise returns a template response filled in with the business figures.
// Scenario requests get a summary of the projected cash change.
func (c *Canned) Advise(_ context.Context, req Request) (string, error) {
	if req.Scenario != nil {
		return scenarioSummary(req.Scenario), nil
	}
	responses := templates(req)
	pick := c.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return responses[pick(len(responses))], nil
}

func templates(req Request) []string {
	s := req.Business
	owner := s.OwnerName()
	kind := strings.ToLower(s.Type)
	return []string{
		fmt.Sprintf("Based on your %s business data, I recommend focusing on cash flow optimization. Consider negotiating better payment terms with suppliers.", kind),
		fmt.Sprintf("%s, your current cash position of %s is reasonable, but I suggest building a 3-month emergency fund of approximately %s.",
			owner, calculator.FormatMoney(s.CurrentCash), calculator.FormatMoney(s.MonthlyRevenue*0.8*3)),
		fmt.Sprintf("For your %s business, I see opportunities to improve profit margins. Have you considered analyzing your highest-margin products/services?", kind),
		fmt.Sprintf("Looking at your monthly revenue of %s, there's potential for growth. I recommend exploring digital marketing strategies to increase customer acquisition.",
			calculator.FormatMoney(s.MonthlyRevenue)),
		fmt.Sprintf("%s, with %d employees, consider implementing performance-based incentives to boost productivity and retention.", owner, s.Employees),
	}
}

func scenarioSummary(c *Comparison) string {
	before := calculator.ProjectedNet(c.Original.MonthlyRevenue, c.Original.TotalExpenseShare())
	after := calculator.ProjectedNet(c.Simulated.MonthlyRevenue, c.Simulated.TotalExpenseShare())

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Under the scenario %q, projected monthly cash moves from %s to %s.",
		c.Command, calculator.FormatMoney(before), calculator.FormatMoney(after)))
	switch {
	case after < 0:
		b.WriteString(" Expenses would exceed revenue, so plan for a cash shortfall before committing to this change.")
	case after > before:
		b.WriteString(" This improves your cash position; consider setting the difference aside as a reserve.")
	case after < before:
		b.WriteString(" This tightens your cash position; review which costs could offset it.")
	default:
		b.WriteString(" Your projected cash position does not change.")
	}
	return b.String()
}
