package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"BizBoost/internal/calculator"
	"BizBoost/internal/catalog"
)

var businessesCmd = &cobra.Command{
	Use:   "businesses",
	Short: "List the businesses in the catalog",
	Args:  cobra.NoArgs,
	RunE:  runBusinesses,
}

func init() {
	rootCmd.AddCommand(businessesCmd)
}

func runBusinesses(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tREVENUE\tEMPLOYEES\tEXPENSES\tNET/MONTH")
	for _, b := range cat.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Name, b.Type,
			calculator.FormatMoney(b.MonthlyRevenue),
			humanize.Comma(int64(b.Employees)),
			calculator.FormatPercent(b.TotalExpenseShare()),
			calculator.FormatMoney(calculator.ProjectedNet(b.MonthlyRevenue, b.TotalExpenseShare())),
		)
	}
	return w.Flush()
}
