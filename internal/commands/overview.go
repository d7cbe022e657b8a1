package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newOverviewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview [MONTH]",
		Short: "Summarize a month's spending by category",
		Long: "With a MONTH argument (YYYY-MM), shows the month's per-category expense totals.\n" +
			"Without arguments, lists the years that have recorded data.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				expYears, err := a.repo.ExpenseYears(cmd.Context())
				if err != nil {
					return err
				}
				incYears, err := a.repo.IncomeYears(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Years with expenses: %v\n", expYears)
				fmt.Fprintf(out, "Years with income:   %v\n", incYears)
				return nil
			}

			ov, err := a.repo.MonthOverview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tSPENT")
			for _, ca := range ov.ByCategory {
				fmt.Fprintf(w, "%s\t%s\n", ca.Name, ca.Amount)
			}
			fmt.Fprintf(w, "TOTAL\t%s\n", ov.Total)
			return w.Flush()
		},
	}
}
