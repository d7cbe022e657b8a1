package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rupeeone/internal/core"
)

func newBudgetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budgets",
	}

	set := &cobra.Command{
		Use:   "set MONTH AMOUNT",
		Short: "Set (or overwrite) the budget limit for a month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := core.ParseAmount(args[1])
			if err != nil {
				return err
			}
			b := core.Budget{Month: args[0], Limit: limit}
			if err := a.repo.SetBudget(cmd.Context(), b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s set to %s\n", b.Month, b.Limit)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all monthly budgets",
		RunE: func(cmd *cobra.Command, args []string) error {
			budgets, err := a.repo.Budgets(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tLIMIT")
			for _, b := range budgets {
				fmt.Fprintf(w, "%s\t%s\n", b.Month, b.Limit)
			}
			return w.Flush()
		},
	}

	status := &cobra.Command{
		Use:   "status MONTH",
		Short: "Show spending against the month's budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.budget.Status(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printStatus(cmd, st)
			return nil
		},
	}

	cmd.AddCommand(set, list, status)
	return cmd
}

func printStatus(cmd *cobra.Command, st core.BudgetStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Month:     %s\n", st.Month)
	fmt.Fprintf(out, "Spent:     %s\n", st.Spent)

	switch st.State {
	case core.BudgetNone:
		fmt.Fprintln(out, color.YellowString("No budget set for this month"))
	case core.BudgetOver:
		fmt.Fprintf(out, "Limit:     %s\n", st.Limit)
		fmt.Fprintf(out, "Remaining: %s\n", color.RedString("%s (over budget)", st.Remaining))
	default:
		fmt.Fprintf(out, "Limit:     %s\n", st.Limit)
		fmt.Fprintf(out, "Remaining: %s\n", color.GreenString("%s (on track)", st.Remaining))
	}
}
