// Package worker runs the background side of the system: it consumes sync and
// report messages, sweeps for transactions a lost message never exported and
// keeps the local category cache in step with the spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"entrepreedge/internal/amqp"
	"entrepreedge/internal/core"
	"entrepreedge/internal/grpchealth"
	"entrepreedge/internal/log"
	"entrepreedge/internal/ports"
)

type (
	// Consumer delivers queue messages until ctx is done.
	Consumer interface {
		ConsumeTransactionSync(ctx context.Context, handler func(context.Context, *amqp.TransactionSyncMessage) error) error
		ConsumeReportRequests(ctx context.Context, handler func(context.Context, *amqp.ReportRequestMessage) error) error
	}

	// Syncer exports transactions by ID and runs its own sweep over pending
	// ones between Start and Stop.
	Syncer interface {
		SyncOne(ctx context.Context, id string) error
		Start(ctx context.Context) error
		Stop(ctx context.Context) error
	}

	ReportGenerator interface {
		Generate(ctx context.Context, t core.ReportType) (core.Report, error)
	}

	TaxonomySource interface {
		Categories(ctx context.Context, txType core.TransactionType) ([]string, error)
	}

	TaxonomyCache interface {
		SyncCategories(ctx context.Context, txType core.TransactionType, names []string) error
	}

	HealthReporter interface {
		SetServing(service string, serving bool)
	}
)

// Deps are the collaborators of a Worker. Reports is required; every other
// member may be nil, which disables the matching loop.
type Deps struct {
	Consumer     Consumer
	Syncer       Syncer
	Reports      ReportGenerator
	TaxonomyFrom TaxonomySource
	TaxonomyInto TaxonomyCache
	Health       HealthReporter
	Logger       *log.Logger
}

type Config struct {
	// TaxonomyInterval is how often categories are copied from the source.
	TaxonomyInterval time.Duration
	// StopTimeout bounds how long the sweep may take to finish on shutdown.
	StopTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		TaxonomyInterval: 24 * time.Hour,
		StopTimeout:      10 * time.Second,
	}
}

type Worker struct {
	deps   Deps
	config Config
	logger *log.Logger
}

func New(deps Deps, config Config) (*Worker, error) {
	if deps.Reports == nil {
		return nil, errors.New("worker needs a report generator")
	}
	def := DefaultConfig()
	if config.StopTimeout <= 0 {
		config.StopTimeout = def.StopTimeout
	}
	if config.TaxonomyInterval <= 0 {
		config.TaxonomyInterval = def.TaxonomyInterval
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if deps.Health == nil {
		deps.Health = noopHealth{}
	}
	return &Worker{deps: deps, config: config, logger: logger.WithComponent(log.ComponentWorker)}, nil
}

type noopHealth struct{}

func (noopHealth) SetServing(string, bool) {}

// HandleSyncMessage exports the transaction named by msg. A transaction the
// store does not have is dropped; redelivery would never find it.
func (w *Worker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	if w.deps.Syncer == nil {
		return errors.New("no exporter configured")
	}
	w.logger.InfoContext(ctx, "Processing sync message", log.FieldTransactionID, msg.ID)
	err := w.deps.Syncer.SyncOne(ctx, msg.ID)
	if errors.Is(err, ports.ErrNotFound) {
		w.logger.WarnContext(ctx, "Dropping sync message for unknown transaction",
			log.FieldTransactionID, msg.ID, log.FieldError, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("sync transaction: %w", err)
	}
	return nil
}

// HandleReportRequest generates and stores the requested report.
func (w *Worker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	r, err := w.deps.Reports.Generate(ctx, msg.Type)
	if err != nil {
		return fmt.Errorf("generate %s report: %w", msg.Type, err)
	}
	w.logger.InfoContext(ctx, "Report request served",
		log.FieldReportID, r.ID,
		log.FieldReportType, r.Type,
		"queued_for", time.Since(msg.RequestedAt).Round(time.Millisecond))
	return nil
}

// SyncTaxonomy copies both category lists from the source into the cache.
// It is a no-op when either side is missing.
func (w *Worker) SyncTaxonomy(ctx context.Context) error {
	if w.deps.TaxonomyFrom == nil || w.deps.TaxonomyInto == nil {
		return nil
	}
	for _, t := range []core.TransactionType{core.Income, core.Expense} {
		names, err := w.deps.TaxonomyFrom.Categories(ctx, t)
		if err != nil {
			return fmt.Errorf("load %s categories: %w", t, err)
		}
		if len(names) == 0 {
			w.logger.WarnContext(ctx, "Source has no categories, keeping cache", log.FieldTransactionType, t)
			continue
		}
		if err := w.deps.TaxonomyInto.SyncCategories(ctx, t, names); err != nil {
			return fmt.Errorf("cache %s categories: %w", t, err)
		}
		w.logger.InfoContext(ctx, "Categories cached", log.FieldTransactionType, t, "count", len(names))
	}
	return nil
}

// Run starts every configured loop and blocks until ctx is done or one of
// them fails. Cancellation is not an error.
func (w *Worker) Run(parent context.Context) error {
	g, ctx := errgroup.WithContext(parent)

	if err := w.SyncTaxonomy(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Initial taxonomy sync failed", log.FieldError, err)
	}

	if c := w.deps.Consumer; c != nil {
		if w.deps.Syncer != nil {
			g.Go(func() error {
				w.deps.Health.SetServing(grpchealth.ServiceSync, true)
				defer w.deps.Health.SetServing(grpchealth.ServiceSync, false)
				return c.ConsumeTransactionSync(ctx, w.HandleSyncMessage)
			})
		}
		g.Go(func() error {
			w.deps.Health.SetServing(grpchealth.ServiceReports, true)
			defer w.deps.Health.SetServing(grpchealth.ServiceReports, false)
			return c.ConsumeReportRequests(ctx, w.HandleReportRequest)
		})
	} else {
		w.logger.InfoContext(ctx, "No message broker configured, only periodic sweeps run")
	}

	if w.deps.Syncer != nil {
		g.Go(func() error { return w.sweep(ctx) })
	}
	if w.deps.TaxonomyFrom != nil && w.deps.TaxonomyInto != nil {
		g.Go(func() error {
			return every(ctx, w.config.TaxonomyInterval, func() {
				if err := w.SyncTaxonomy(ctx); err != nil {
					w.logger.ErrorContext(ctx, "Periodic taxonomy sync failed", log.FieldError, err)
				}
			})
		})
	}

	w.deps.Health.SetServing(grpchealth.ServiceOverall, true)
	defer w.deps.Health.SetServing(grpchealth.ServiceOverall, false)

	err := g.Wait()
	if parent.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// sweep runs the syncer's pending-transaction loop until ctx is done. The
// loop exports a first batch as soon as it starts.
func (w *Worker) sweep(ctx context.Context) error {
	if err := w.deps.Syncer.Start(ctx); err != nil {
		return fmt.Errorf("start sync sweep: %w", err)
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.config.StopTimeout)
	defer cancel()
	if err := w.deps.Syncer.Stop(stopCtx); err != nil {
		w.logger.WarnContext(stopCtx, "Sync sweep did not stop in time", log.FieldError, err)
	}
	return ctx.Err()
}

func every(ctx context.Context, interval time.Duration, fn func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn()
		}
	}
}
