package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"entrepreedge/internal/core"
	"entrepreedge/internal/finance"
)

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total income, expense and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			totals, err := a.txs.Totals(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), totals, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Income:  %s\nExpense: %s\nBalance: %s\n", totals.Income, totals.Expense, totals.Balance)
				return err
			})
		},
	}
}

func newMonthsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "Show income, expense and profit per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			months, err := a.txs.ByMonth(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), months, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE\tPROFIT\tMARGIN")
				for _, m := range months {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f%%\n", m.Month, m.Income, m.Expense, m.Profit, m.ProfitMargin)
				}
				return tw.Flush()
			})
		},
	}
}

func newCategoriesCommand(a *app) *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show totals per category for income or expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := core.ParseTransactionType(txType)
			if err != nil {
				return err
			}
			if err := a.open(cmd); err != nil {
				return err
			}
			cats, err := a.txs.ByCategory(cmd.Context(), t)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), cats, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CATEGORY\tAMOUNT")
				for _, c := range cats {
					fmt.Fprintf(tw, "%s\t%s\n", c.Category, c.Amount)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&txType, "type", "", "income or expense (required)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newProjectionCommand(a *app) *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "projection",
		Short: "Project income and expense for the next three months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				a.seed = finance.NewSeededSource(seed)
			}
			if err := a.open(cmd); err != nil {
				return err
			}
			projection, err := a.txs.Projection(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), projection, func(w io.Writer) error {
				return writeProjection(w, projection)
			})
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed the inflation draws for a reproducible projection")
	return cmd
}

func writeProjection(w io.Writer, projection []core.ProjectedMonth) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE")
	for _, p := range projection {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Month, p.ProjectedIncome, p.ProjectedExpense)
	}
	return tw.Flush()
}
