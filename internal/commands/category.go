package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rupeeone/internal/core"
)

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	var kind string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := core.Category{Name: args[0], Kind: core.CategoryKind(kind)}
			if err := a.repo.AddCategory(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %q (%s)\n", c.Name, c.Kind)
			return nil
		},
	}
	add.Flags().StringVar(&kind, "kind", string(core.KindExpense), "expense, income or shared")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.repo.Categories(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND")
			for _, c := range cats {
				fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Kind)
			}
			return w.Flush()
		},
	}

	rename := &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a category, cascading to all entries that use it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.repo.RenameCategory(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed category %q to %q\n", args[0], args[1])
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an unreferenced category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.repo.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %q\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, list, rename, del)
	return cmd
}
