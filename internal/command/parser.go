// Package command turns free-text what-if commands into typed deltas.
package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"BizBoost/internal/model"
)

// rule pairs a trigger with an extractor. Once a trigger fires the rule owns
// the command: an extractor failure yields NoMatch, later rules are not tried.
type rule struct {
	Name    string
	Trigger func(cmd string) bool
	Extract func(cmd string) (model.Delta, bool)
}

var (
	revenueUpRe   = regexp.MustCompile(`revenue (?:increase|up) by\D*?(\d+(?:\.\d+)?)(%?)`)
	revenueDownRe = regexp.MustCompile(`revenue (?:decrease|down) by\D*?(\d+(?:\.\d+)?)(%?)`)
	hireRe        = regexp.MustCompile(`hire (\d+)`)
	reduceRe      = regexp.MustCompile(`reduce (\d+)`)
	expenseRe     = regexp.MustCompile(`(` + expenseAlternation() + `) cost by (\d+(?:\.\d+)?)(%?)`)
)

// rules is the ordered classification table.
var rules = []rule{
	{
		Name:    "revenue increase",
		Trigger: containsAny("revenue increase by", "revenue up by"),
		Extract: extractRevenue(revenueUpRe, 1),
	},
	{
		Name:    "revenue decrease",
		Trigger: containsAny("revenue decrease by", "revenue down by"),
		Extract: extractRevenue(revenueDownRe, -1),
	},
	{
		Name:    "hire",
		Trigger: containsAll("hire", "employee"),
		Extract: extractHeadcount(hireRe, 1),
	},
	{
		Name:    "reduce headcount",
		Trigger: containsAll("reduce", "employee"),
		Extract: extractHeadcount(reduceRe, -1),
	},
	{
		Name: "expense reduction",
		Trigger: func(cmd string) bool {
			return containsAny("reduce", "cut")(cmd) && strings.Contains(cmd, "cost")
		},
		Extract: extractExpense(-1),
	},
	{
		Name: "expense increase",
		Trigger: func(cmd string) bool {
			return containsAny("increase", "add")(cmd) && strings.Contains(cmd, "cost")
		},
		Extract: extractExpense(1),
	},
}

// Parse classifies a raw command. It never fails: anything it cannot read as
// a scenario comes back as model.NoMatch.
func Parse(command string) model.Delta {
	cmd := strings.ToLower(strings.TrimSpace(command))
	for _, r := range rules {
		if !r.Trigger(cmd) {
			continue
		}
		if d, ok := r.Extract(cmd); ok {
			return d
		}
		return model.NoMatch{}
	}
	return model.NoMatch{}
}

// Classify returns the name of the rule that owns the command, or "" when no
// trigger fires. Used for logging.
func Classify(command string) string {
	cmd := strings.ToLower(strings.TrimSpace(command))
	for _, r := range rules {
		if r.Trigger(cmd) {
			return r.Name
		}
	}
	return ""
}

// Describe renders a delta as a short phrase.
func Describe(d model.Delta) string {
	switch v := d.(type) {
	case model.RevenueDelta:
		return fmt.Sprintf("revenue %s %s", direction(v.Magnitude), amount(v.Magnitude, v.IsPercentage))
	case model.EmployeeDelta:
		if v.Count >= 0 {
			return fmt.Sprintf("hire %d employees", v.Count)
		}
		return fmt.Sprintf("reduce %d employees", -v.Count)
	case model.ExpenseDelta:
		return fmt.Sprintf("%s cost %s %s", v.Category, direction(v.Magnitude), amount(v.Magnitude, v.IsPercentage))
	}
	return "no scenario"
}

func extractRevenue(re *regexp.Regexp, sign float64) func(string) (model.Delta, bool) {
	return func(cmd string) (model.Delta, bool) {
		m := re.FindStringSubmatch(cmd)
		if m == nil {
			return nil, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, false
		}
		return model.RevenueDelta{Magnitude: sign * v, IsPercentage: m[2] == "%"}, true
	}
}

func extractHeadcount(re *regexp.Regexp, sign int) func(string) (model.Delta, bool) {
	return func(cmd string) (model.Delta, bool) {
		m := re.FindStringSubmatch(cmd)
		if m == nil {
			return nil, false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, false
		}
		return model.EmployeeDelta{Count: sign * n}, true
	}
}

func extractExpense(sign float64) func(string) (model.Delta, bool) {
	return func(cmd string) (model.Delta, bool) {
		m := expenseRe.FindStringSubmatch(cmd)
		if m == nil {
			return nil, false
		}
		kind, ok := model.ParseExpenseKind(m[1])
		if !ok {
			return nil, false
		}
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, false
		}
		return model.ExpenseDelta{Category: kind, Magnitude: sign * v, IsPercentage: m[3] == "%"}, true
	}
}

func containsAny(phrases ...string) func(string) bool {
	return func(cmd string) bool {
		for _, p := range phrases {
			if strings.Contains(cmd, p) {
				return true
			}
		}
		return false
	}
}

func containsAll(words ...string) func(string) bool {
	return func(cmd string) bool {
		for _, w := range words {
			if !strings.Contains(cmd, w) {
				return false
			}
		}
		return true
	}
}

func expenseAlternation() string {
	words := make([]string, len(model.ExpenseKinds))
	for i, k := range model.ExpenseKinds {
		words[i] = string(k)
	}
	return strings.Join(words, "|")
}

func direction(v float64) string {
	if v < 0 {
		return "down by"
	}
	return "up by"
}

func amount(v float64, pct bool) string {
	if v < 0 {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if pct {
		return s + "%"
	}
	return s
}
