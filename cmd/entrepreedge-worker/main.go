package main

import (
	"os"

	"golang.org/x/sync/errgroup"

	"entrepreedge/internal/cli"
	"entrepreedge/internal/grpchealth"
	"entrepreedge/internal/log"
	"entrepreedge/internal/services"
	"entrepreedge/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	logger.Info("Starting entrepreedge-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.DataBackend != "sqlite" {
		logger.Error("The worker needs DATA_BACKEND=sqlite to share transactions with the API", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	res := cli.InitBackend(ctx, logger, cfg)
	defer cli.RunCleanup(logger, res.Cleanup)

	health := grpchealth.New(cfg.WorkerHealthAddr)
	if err := health.Listen(); err != nil {
		logger.Error("Failed to bind health server", "error", err)
		os.Exit(1)
	}

	deps := worker.Deps{
		Reports: services.NewReportService(res.SQLite, res.SQLite, res.ReportExporter(), nil,
			services.WithRandom(cli.ProjectionSource(cfg))),
		TaxonomyInto: res.SQLite,
		Health:       health,
		Logger:       logger,
	}
	if res.AMQP != nil {
		deps.Consumer = res.AMQP
	} else {
		logger.Warn("AMQP_URL not set, queued syncs and report requests will not be consumed")
	}
	if res.Sheets != nil {
		deps.Syncer = services.NewSyncProcessor(res.SQLite, res.Sheets, services.SyncProcessorConfig{
			PollInterval: cfg.SyncInterval,
			BatchSize:    cfg.SyncBatchSize,
		})
		deps.TaxonomyFrom = res.Sheets
	} else {
		logger.Info("Google Sheets disabled, transactions stay pending until a spreadsheet is configured")
	}

	w, err := worker.New(deps, worker.DefaultConfig())
	if err != nil {
		logger.Error("Failed to configure worker", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return health.Serve(gctx) })
	g.Go(func() error {
		defer stop()
		return w.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		cli.RunCleanup(logger, res.Cleanup)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
