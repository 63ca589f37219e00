package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"BizBoost/internal/calculator"
	"BizBoost/internal/catalog"
	"BizBoost/internal/command"
	"BizBoost/internal/notifier"
	"BizBoost/internal/scenario"
)

var (
	flagBusiness string
	flagJSON     bool
)

var simulateCmd = &cobra.Command{
	Use:     "simulate <command...>",
	Short:   "Simulate a what-if command on a business",
	Example: `  bizboost simulate --business mike revenue increase by 20%`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&flagBusiness, "business", "b", "", "Business ID (default: configured default business)")
	simulateCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the simulated state as JSON")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	id := flagBusiness
	if id == "" {
		id = cfg.Catalog.DefaultBusiness
	}
	state := cat.Default()
	if id != "" {
		if state, err = cat.Get(id); err != nil {
			return err
		}
	}

	text := strings.Join(args, " ")
	delta := command.Parse(text)
	a := scenario.AssumptionsFor(state.Type, cfg.Assumptions(), cfg.Simulation.Overrides)
	simulated, ok := scenario.Simulate(state, delta, a)

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"matched":     ok,
			"description": command.Describe(delta),
			"original":    state,
			"simulated":   simulated,
		})
	}
	if !ok {
		fmt.Fprintf(out, "No scenario recognised in %q. Try \"revenue increase by 10%%\" or \"hire 2 employees\".\n", text)
		return nil
	}

	fmt.Fprintf(out, "%s: %s\n\n", state.Name, command.Describe(delta))
	fmt.Fprint(out, notifier.StripTags(notifier.FormatComparison(state, simulated)))
	fmt.Fprintln(out, "\nCash flow:")
	for i, p := range simulated.CashFlow {
		switch {
		case p.Actual != nil:
			fmt.Fprintf(out, "  %-4s %10s  actual\n", p.Period, calculator.FormatMoney(*p.Actual))
		case p.Predicted != nil && i >= a.HistoricalBoundary:
			fmt.Fprintf(out, "  %-4s %10s  projected\n", p.Period, calculator.FormatMoney(*p.Predicted))
		case p.Predicted != nil:
			fmt.Fprintf(out, "  %-4s %10s  forecast\n", p.Period, calculator.FormatMoney(*p.Predicted))
		}
	}
	return nil
}
