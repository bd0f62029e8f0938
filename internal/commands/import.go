package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"entrepreedge/internal/csvimport"
)

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.csv",
		Short: "Append transactions from a CSV file (date,type,category,description,amount)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := csvimport.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := a.open(cmd); err != nil {
				return err
			}
			n, err := a.txs.Import(cmd.Context(), txs)
			if err != nil {
				return fmt.Errorf("imported %d of %d transactions: %w", n, len(txs), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", n)
			return nil
		},
	}
}
