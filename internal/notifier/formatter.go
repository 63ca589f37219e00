package notifier

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"BizBoost/internal/calculator"
	"BizBoost/internal/model"
	"BizBoost/internal/session"
)

var (
	tagRe    = regexp.MustCompile(`</?(?:b|i|code)>`)
	replacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// Escape makes text safe for Telegram HTML messages.
func Escape(s string) string { return replacer.Replace(s) }

// StripTags turns formatted HTML back into plain text.
func StripTags(s string) string {
	return html.UnescapeString(tagRe.ReplaceAllString(s, ""))
}

func projectedNet(s model.BusinessState) float64 {
	return calculator.ProjectedNet(s.MonthlyRevenue, s.TotalExpenseShare())
}

// FormatBusinessSummary formats a business snapshot.
func FormatBusinessSummary(s model.BusinessState) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏪 <b>%s</b> (%s)\n\n", Escape(s.Name), Escape(s.Type)))
	b.WriteString(fmt.Sprintf("Cash: %s\n", calculator.FormatMoney(s.CurrentCash)))
	b.WriteString(fmt.Sprintf("Monthly revenue: %s\n", calculator.FormatMoney(s.MonthlyRevenue)))
	b.WriteString(fmt.Sprintf("Employees: %d\n", s.Employees))
	b.WriteString(fmt.Sprintf("Expenses: %s of revenue\n", calculator.FormatPercent(s.TotalExpenseShare())))
	for _, c := range s.ExpenseCategories {
		b.WriteString(fmt.Sprintf("  • %s: %s\n", Escape(c.Name), calculator.FormatPercent(c.Share)))
	}
	b.WriteString(fmt.Sprintf("Projected monthly cash: %s\n", calculator.FormatMoney(projectedNet(s))))
	return b.String()
}

// FormatComparison lists what changed between two states.
func FormatComparison(orig, sim model.BusinessState) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Revenue: %s → %s\n",
		calculator.FormatMoney(orig.MonthlyRevenue), calculator.FormatMoney(sim.MonthlyRevenue)))
	b.WriteString(fmt.Sprintf("Employees: %d → %d\n", orig.Employees, sim.Employees))
	b.WriteString(fmt.Sprintf("Expenses: %s → %s\n",
		calculator.FormatPercent(orig.TotalExpenseShare()), calculator.FormatPercent(sim.TotalExpenseShare())))
	for i, c := range sim.ExpenseCategories {
		if i < len(orig.ExpenseCategories) && orig.ExpenseCategories[i].Share != c.Share {
			b.WriteString(fmt.Sprintf("  • %s: %s → %s\n", Escape(c.Name),
				calculator.FormatPercent(orig.ExpenseCategories[i].Share), calculator.FormatPercent(c.Share)))
		}
	}
	b.WriteString(fmt.Sprintf("Projected monthly cash: %s → %s\n",
		calculator.FormatMoney(projectedNet(orig)), calculator.FormatMoney(projectedNet(sim))))
	return b.String()
}

// FormatScenarioReply formats a session reply for chat. Plain questions show
// only the advice.
func FormatScenarioReply(r *session.Reply) string {
	if !r.Scenario || r.Simulated == nil {
		return "💬 " + Escape(r.Advice)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔮 <b>Scenario:</b> %s\n\n", Escape(r.Description)))
	b.WriteString(FormatComparison(r.Original, *r.Simulated))
	if r.Advice != "" {
		b.WriteString("\n💬 ")
		b.WriteString(Escape(r.Advice))
	}
	return b.String()
}

// FormatBusinessList lists the catalog, marking the current business.
func FormatBusinessList(list []model.BusinessState, currentID string) string {
	var b strings.Builder
	b.WriteString("📋 <b>Businesses</b>\n\n")
	for _, s := range list {
		marker := "  "
		if s.ID == currentID {
			marker = "▶ "
		}
		b.WriteString(fmt.Sprintf("%s<code>%s</code> %s (%s)\n", marker, Escape(s.ID), Escape(s.Name), Escape(s.Type)))
	}
	return b.String()
}

// FormatHelp lists chat commands and scenario examples.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("🤖 <b>BizBoost</b>\n\n")
	b.WriteString("Commands:\n")
	b.WriteString("• /status - current business and active scenario\n")
	b.WriteString("• /businesses - list businesses\n")
	b.WriteString("• /business &lt;id&gt; - switch business\n")
	b.WriteString("• /clear - clear the active scenario\n")
	b.WriteString("• /help - this message\n\n")
	b.WriteString("What-if examples:\n")
	b.WriteString("• revenue increase by 10%\n")
	b.WriteString("• hire 2 employees\n")
	b.WriteString("• reduce food cost by 5%\n")
	b.WriteString("• cut rent cost by 500\n\n")
	b.WriteString("Anything else is answered by the advisor.")
	return b.String()
}

// FormatStatus formats the session view.
func FormatStatus(v session.View) string {
	var b strings.Builder
	b.WriteString(FormatBusinessSummary(v.Business))
	if v.Scenario != nil {
		b.WriteString(fmt.Sprintf("\n🔮 <b>Active scenario:</b> %s\n", Escape(v.LastCommand)))
		b.WriteString(FormatComparison(v.Business, *v.Scenario))
	}
	return b.String()
}

// FormatDigest formats the scheduled digest.
func FormatDigest(v session.View, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>BizBoost digest</b> | %s\n\n", now.Format("2006-01-02")))
	b.WriteString(FormatStatus(v))

	state := v.Business
	if v.Scenario != nil {
		state = *v.Scenario
	}
	if len(state.CashFlow) > 0 {
		b.WriteString("\n📈 <b>Cash flow:</b>\n")
		for _, p := range state.CashFlow {
			switch {
			case p.Actual != nil:
				b.WriteString(fmt.Sprintf("  %s: %s\n", Escape(p.Period), calculator.FormatMoney(*p.Actual)))
			case p.Predicted != nil:
				b.WriteString(fmt.Sprintf("  %s: %s (projected)\n", Escape(p.Period), calculator.FormatMoney(*p.Predicted)))
			}
		}
	}
	return b.String()
}
