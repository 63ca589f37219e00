package model

import "strings"

// ExpenseKind is a cost category recognised in what-if commands.
type ExpenseKind string

const (
	ExpenseStaff       ExpenseKind = "staff"
	ExpenseFood        ExpenseKind = "food"
	ExpenseRent        ExpenseKind = "rent"
	ExpenseUtilities   ExpenseKind = "utilities"
	ExpenseMarketing   ExpenseKind = "marketing"
	ExpenseDevelopment ExpenseKind = "development"
	ExpenseOffice      ExpenseKind = "office"
	ExpenseInventory   ExpenseKind = "inventory"
)

// ExpenseKinds lists every recognised category, in command-matching order.
var ExpenseKinds = []ExpenseKind{
	ExpenseStaff,
	ExpenseFood,
	ExpenseRent,
	ExpenseUtilities,
	ExpenseMarketing,
	ExpenseDevelopment,
	ExpenseOffice,
	ExpenseInventory,
}

// ParseExpenseKind maps a lower-case word to its ExpenseKind.
func ParseExpenseKind(word string) (ExpenseKind, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	for _, k := range ExpenseKinds {
		if string(k) == word {
			return k, true
		}
	}
	return "", false
}

// Delta is a structured change requested by a what-if command. It is one of
// RevenueDelta, EmployeeDelta, ExpenseDelta or NoMatch.
type Delta interface {
	delta()
}

// RevenueDelta changes monthly revenue by an absolute amount or a percentage.
type RevenueDelta struct {
	Magnitude    float64
	IsPercentage bool
}

// EmployeeDelta hires (positive Count) or lets go (negative Count) staff.
type EmployeeDelta struct {
	Count int
}

// ExpenseDelta changes one expense category's share of revenue.
type ExpenseDelta struct {
	Category     ExpenseKind
	Magnitude    float64
	IsPercentage bool
}

// NoMatch marks a command that is not a scenario.
type NoMatch struct{}

func (RevenueDelta) delta()  {}
func (EmployeeDelta) delta() {}
func (ExpenseDelta) delta()  {}
func (NoMatch) delta()       {}

// IsMatch reports whether d describes an actual change.
func IsMatch(d Delta) bool {
	switch d.(type) {
	case RevenueDelta, EmployeeDelta, ExpenseDelta:
		return true
	}
	return false
}
