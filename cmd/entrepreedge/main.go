package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"entrepreedge/internal/cli"
	apphttp "entrepreedge/internal/http"
	"entrepreedge/internal/log"
	"entrepreedge/internal/segments"
	"entrepreedge/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	res := cli.InitBackend(ctx, logger, cfg)
	defer cli.RunCleanup(logger, res.Cleanup)

	opts := []services.Option{services.WithRandom(cli.ProjectionSource(cfg))}
	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Transactions:       services.NewTransactionService(res.Store, res.Publisher(), opts...),
		Reports:            services.NewReportService(res.Store, res.Store, res.ReportExporter(), res.Publisher(), opts...),
		Taxonomy:           res.Store,
		Segments:           segments.Builtin(),
		Ping:               res.Ping,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		CacheTTL:           cfg.SummaryCacheTTL(),
	})
	if err != nil {
		logger.Error("Failed to configure HTTP server", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting entrepreedge server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"segment", cfg.Segment,
			"amqp", res.AMQP != nil,
			"sheets", res.Sheets != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err, "port", cfg.Port)
			cli.RunCleanup(logger, res.Cleanup)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
