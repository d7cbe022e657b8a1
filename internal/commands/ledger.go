package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rupeeone/internal/core"
)

// ledgerOps abstracts over the expense and income ledgers so both get the
// same add/list/update/delete command set.
type ledgerOps struct {
	add    func(context.Context, core.Entry) (int64, error)
	list   func(context.Context, core.Filter) ([]core.Entry, error)
	update func(context.Context, int64, core.Entry) error
	delete func(context.Context, int64) error
}

func (a *app) expenseOps() ledgerOps {
	return ledgerOps{
		add:    a.repo.AddExpense,
		list:   a.repo.ListExpenses,
		update: a.repo.UpdateExpense,
		delete: a.repo.DeleteExpense,
	}
}

func (a *app) incomeOps() ledgerOps {
	return ledgerOps{
		add:    a.repo.AddIncome,
		list:   a.repo.ListIncome,
		update: a.repo.UpdateIncome,
		delete: a.repo.DeleteIncome,
	}
}

func newExpenseCommand(a *app) *cobra.Command {
	return newLedgerCommand(a, "expense", "Track spending", (*app).expenseOps)
}

func newIncomeCommand(a *app) *cobra.Command {
	return newLedgerCommand(a, "income", "Track earnings", (*app).incomeOps)
}

func newLedgerCommand(a *app, name, short string, ops func(*app) ledgerOps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
	}
	cmd.AddCommand(newLedgerAddCommand(a, name, ops))
	cmd.AddCommand(newLedgerListCommand(a, name, ops))
	cmd.AddCommand(newLedgerUpdateCommand(a, name, ops))
	cmd.AddCommand(newLedgerDeleteCommand(a, name, ops))
	return cmd
}

// parseEntry turns the raw flag strings into a validated-parseable entry.
// Full validation happens again inside the repository.
func parseEntry(dateStr, category, amountStr, note string) (core.Entry, error) {
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Entry{}, err
	}
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		return core.Entry{}, err
	}
	return core.Entry{Date: date, Category: category, Amount: amount, Note: note}, nil
}

func newLedgerAddCommand(a *app, name string, ops func(*app) ledgerOps) *cobra.Command {
	var (
		dateStr   string
		category  string
		amountStr string
		note      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new " + name,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseEntry(dateStr, category, amountStr, note)
			if err != nil {
				return err
			}
			id, err := ops(a).add(cmd.Context(), e)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s #%d: %s %s (%s)\n",
				name, id, e.Date, e.Amount, e.Category)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "date in YYYY-MM-DD format (required)")
	cmd.Flags().StringVar(&category, "category", "", "category name (required)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount, e.g. 12.50 (required)")
	cmd.Flags().StringVar(&note, "note", "", "optional free-text note")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func newLedgerListCommand(a *app, name string, ops func(*app) ledgerOps) *cobra.Command {
	var (
		fromStr  string
		toStr    string
		category string
		keyword  string
		year     int
		month    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + name + " entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var f core.Filter
			var err error
			if fromStr != "" {
				if f.From, err = core.ParseDate(fromStr); err != nil {
					return err
				}
			}
			if toStr != "" {
				if f.To, err = core.ParseDate(toStr); err != nil {
					return err
				}
			}
			f.Category = category
			f.Keyword = keyword
			f.Year = year
			f.Month = month

			entries, err := ops(a).list(cmd.Context(), f)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "inclusive end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "filter by exact category")
	cmd.Flags().StringVar(&keyword, "keyword", "", "substring match on the note")
	cmd.Flags().IntVar(&year, "year", 0, "filter by calendar year")
	cmd.Flags().StringVar(&month, "month", "", "filter by month (YYYY-MM)")
	return cmd
}

func newLedgerUpdateCommand(a *app, name string, ops func(*app) ledgerOps) *cobra.Command {
	var (
		dateStr   string
		category  string
		amountStr string
		note      string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace an existing " + name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			e, err := parseEntry(dateStr, category, amountStr, note)
			if err != nil {
				return err
			}
			if err := ops(a).update(cmd.Context(), id, e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s #%d\n", name, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "date in YYYY-MM-DD format (required)")
	cmd.Flags().StringVar(&category, "category", "", "category name (required)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount, e.g. 12.50 (required)")
	cmd.Flags().StringVar(&note, "note", "", "optional free-text note")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func newLedgerDeleteCommand(a *app, name string, ops func(*app) ledgerOps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + name + " by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := ops(a).delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s #%d\n", name, id)
			return nil
		},
	}
}

func printEntries(out io.Writer, entries []core.Entry) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tNOTE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, e.Amount, e.Note)
	}
	w.Flush()
}
