package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltin(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	ids := c.IDs()
	if len(ids) != 3 || ids[0] != "sarah" || ids[1] != "mike" || ids[2] != "lisa" {
		t.Fatalf("unexpected ids %v", ids)
	}

	s, err := c.Get("sarah")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Name != "Sarah's Restaurant" || s.MonthlyRevenue != 32000 || s.Employees != 12 {
		t.Errorf("unexpected business %+v", s)
	}
	if got := s.TotalExpenseShare(); got != 100 {
		t.Errorf("expected total expense 100, got %.2f", got)
	}
	if len(s.CashFlow) != 6 {
		t.Fatalf("expected 6 periods, got %d", len(s.CashFlow))
	}
	if s.CashFlow[1].Actual == nil || *s.CashFlow[1].Actual != 38000 {
		t.Errorf("Aug actual: expected 38000, got %v", s.CashFlow[1].Actual)
	}
	if s.CashFlow[2].Actual != nil {
		t.Errorf("Sep actual: expected nil, got %v", *s.CashFlow[2].Actual)
	}
	if c.Default().ID != "sarah" {
		t.Errorf("expected sarah as default, got %s", c.Default().ID)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatal(err)
	}
	s, _ := c.Get("mike")
	s.ExpenseCategories[0].Share = 0
	*s.CashFlow[0].Actual = 1

	again, _ := c.Get("mike")
	if again.ExpenseCategories[0].Share != 55 {
		t.Errorf("catalog mutated through returned copy: share %.2f", again.ExpenseCategories[0].Share)
	}
	if *again.CashFlow[0].Actual != 85000 {
		t.Errorf("catalog mutated through returned copy: actual %.0f", *again.CashFlow[0].Actual)
	}
}

func TestGet_NotFound(t *testing.T) {
	c, _ := Builtin()
	if _, err := c.Get("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":        "businesses: []",
		"missing id":   "businesses:\n  - name: X\n",
		"duplicate id": "businesses:\n  - id: a\n  - id: a\n",
		"negative":     "businesses:\n  - id: a\n    expense_categories:\n      - { name: Rent, share: -1 }\n",
		"bad yaml":     "businesses: [",
	}
	for name, data := range tests {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "businesses:\n  - id: cafe\n    name: Cafe\n    monthly_revenue: 1000\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Default().ID != "cafe" || c.Default().MonthlyRevenue != 1000 {
		t.Errorf("unexpected default %+v", c.Default())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
