package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"entrepreedge/internal/segments"
)

func newSegmentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Show the built-in business segments",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List segment keys and names",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				all := segments.Builtin().All()
				return a.print(cmd.OutOrStdout(), all, func(w io.Writer) error {
					tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "KEY\tNAME\tMODULES")
					for _, s := range all {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, s.Name, strings.Join(s.Modules, ","))
					}
					return tw.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "show KEY",
			Short: "Show one segment's navigation and default categories",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				seg, err := segments.Lookup(args[0])
				if err != nil {
					return err
				}
				return a.print(cmd.OutOrStdout(), seg, func(w io.Writer) error {
					fmt.Fprintf(w, "%s (%s)\n", seg.Name, seg.Key)
					fmt.Fprintf(w, "Modules: %s\n", strings.Join(seg.Modules, ", "))
					fmt.Fprintln(w, "Navigation:")
					for _, n := range seg.Navigation {
						fmt.Fprintf(w, "  %s  %s\n", n.Title, n.Path)
					}
					fmt.Fprintf(w, "Income categories: %s\n", strings.Join(seg.IncomeCategories, ", "))
					_, err := fmt.Fprintf(w, "Expense categories: %s\n", strings.Join(seg.ExpenseCategories, ", "))
					return err
				})
			},
		},
	)
	return cmd
}
