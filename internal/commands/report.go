package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"entrepreedge/internal/core"
)

func newReportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate, queue and list reports",
	}
	cmd.AddCommand(
		newReportGenerateCommand(a),
		newReportRequestCommand(a),
		newReportListCommand(a),
	)
	return cmd
}

func reportTypeFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "type", "", "expenses, income, profitability or projection (required)")
	_ = cmd.MarkFlagRequired("type")
}

func newReportGenerateCommand(a *app) *cobra.Command {
	var reportType string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build and store a report now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := core.ParseReportType(reportType)
			if err != nil {
				return err
			}
			if err := a.open(cmd); err != nil {
				return err
			}
			r, err := a.reports.Generate(cmd.Context(), t)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), r, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (%s)\n%s\nGenerated %s\n\n", r.Title, r.ID, r.Description, r.DateGenerated.Format(time.RFC3339))
				return writeReportData(w, r)
			})
		},
	}

	reportTypeFlag(cmd, &reportType)
	return cmd
}

func newReportRequestCommand(a *app) *cobra.Command {
	var reportType string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Queue a report for the worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := core.ParseReportType(reportType)
			if err != nil {
				return err
			}
			if err := a.open(cmd); err != nil {
				return err
			}
			if err := a.reports.Request(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued %s report\n", t)
			return nil
		},
	}

	reportTypeFlag(cmd, &reportType)
	return cmd
}

func newReportListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			reports, err := a.reports.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), reports, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTYPE\tGENERATED\tTITLE")
				for _, r := range reports {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Type, r.DateGenerated.Format(time.RFC3339), r.Title)
				}
				return tw.Flush()
			})
		},
	}
}

func writeReportData(w io.Writer, r core.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch {
	case r.Data.Categories != nil:
		fmt.Fprintln(tw, "CATEGORY\tAMOUNT")
		for _, c := range r.Data.Categories {
			fmt.Fprintf(tw, "%s\t%s\n", c.Category, c.Amount)
		}
	case r.Data.Monthly != nil:
		fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE\tPROFIT\tMARGIN")
		for _, m := range r.Data.Monthly {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f%%\n", m.Month, m.Income, m.Expense, m.Profit, m.ProfitMargin)
		}
	case r.Data.Projection != nil:
		return writeProjection(w, r.Data.Projection)
	}
	return tw.Flush()
}
