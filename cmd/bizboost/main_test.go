package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagBusiness, flagJSON = "", false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSimulateCommand(t *testing.T) {
	out, err := run(t, "simulate", "--business", "sarah", "reduce", "food", "cost", "by", "10%")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for _, part := range []string{
		"Sarah's Restaurant: food cost down by 10%",
		"Food Costs: 25% → 15%",
		"Projected monthly cash: $0 → $3,200",
		"Sep     $28,000  forecast",
		"Oct      $3,200  projected",
	} {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q:\n%s", part, out)
		}
	}
}

func TestSimulateCommand_JSON(t *testing.T) {
	out, err := run(t, "simulate", "-b", "mike", "--json", "hire", "2", "employees")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var got struct {
		Matched   bool `json:"matched"`
		Simulated struct {
			Employees int `json:"employees"`
		} `json:"simulated"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !got.Matched || got.Simulated.Employees != 10 {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestSimulateCommand_NoMatchAndUnknownBusiness(t *testing.T) {
	out, err := run(t, "simulate", "how", "am", "I", "doing?")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(out, "No scenario recognised") {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := run(t, "simulate", "--business", "zed", "hire", "1", "employee"); err == nil {
		t.Error("expected error for unknown business")
	}
}

func TestBusinessesCommand(t *testing.T) {
	out, err := run(t, "businesses")
	if err != nil {
		t.Fatalf("businesses: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "sarah") || !strings.Contains(lines[1], "$32,000") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}
