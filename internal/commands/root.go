// Package commands implements edgectl, the operator CLI that runs the same
// services as the API against the configured backend.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"entrepreedge/internal/backend"
	"entrepreedge/internal/cli"
	"entrepreedge/internal/config"
	"entrepreedge/internal/finance"
	"entrepreedge/internal/log"
	"entrepreedge/internal/services"
)

// app is the lazily opened backend shared by the subcommands of one run.
type app struct {
	asJSON bool
	seed   finance.RandomSource

	cfg     *config.Config
	logger  *log.Logger
	res     *backend.Result
	txs     *services.TransactionService
	reports *services.ReportService
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "edgectl",
		Short: "Inspect and feed the EntrepreEdge finance store",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of tables")

	rootCmd.AddCommand(
		newSummaryCommand(a),
		newMonthsCommand(a),
		newCategoriesCommand(a),
		newProjectionCommand(a),
		newReportCommand(a),
		newSegmentsCommand(a),
		newImportCommand(a),
	)
	return rootCmd
}

// open loads configuration and the backend once per run.
func (a *app) open(cmd *cobra.Command) error {
	if a.res != nil {
		return nil
	}
	cli.LoadEnvFile()
	cfg := config.Load()
	a.logger = cli.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, log.ComponentCLI)
	if err := cfg.Validate(); err != nil {
		return err
	}
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(a.logger.WithComponent(log.ComponentBackend).Logger).Create(cmd.Context(), bcfg)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}

	rnd := a.seed
	if rnd == nil {
		rnd = cli.ProjectionSource(cfg)
	}
	opts := []services.Option{services.WithRandom(rnd)}

	a.cfg = cfg
	a.res = res
	a.txs = services.NewTransactionService(res.Store, res.Publisher(), opts...)
	a.reports = services.NewReportService(res.Store, res.Store, res.ReportExporter(), res.Publisher(), opts...)
	return nil
}

func (a *app) close() error {
	if a.res == nil || a.res.Cleanup == nil {
		return nil
	}
	err := a.res.Cleanup()
	a.res = nil
	return err
}

// print writes v as indented JSON when --json is set and calls table otherwise.
func (a *app) print(w io.Writer, v any, table func(io.Writer) error) error {
	if a.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return table(w)
}

// Execute runs edgectl with args and releases the backend even when the
// command fails.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	a := &app{}
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	if out != nil {
		cmd.SetOut(out)
	}
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}
