// Package backend assembles the stores, publisher and exporter selected by
// configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"entrepreedge/internal/amqp"
	"entrepreedge/internal/ports"
	"entrepreedge/internal/segments"
	gsheet "entrepreedge/internal/sheets/google"
	"entrepreedge/internal/storage"
	"entrepreedge/internal/store/memory"
)

// Store is everything the services read and write.
type Store interface {
	ports.TransactionStore
	ports.ReportStore
	ports.TaxonomyReader
}

// CleanupFunc releases the resources held by a Result.
type CleanupFunc func() error

// Result holds the assembled components. AMQP and Sheets are nil when not
// configured; SQLite is nil for the memory backend.
type Result struct {
	Store   Store
	SQLite  *storage.SQLiteRepository
	AMQP    *amqp.Client
	Sheets  *gsheet.Client
	Cleanup CleanupFunc
}

// Publisher returns the AMQP client as a port, or a nil interface.
func (r *Result) Publisher() ports.SyncMessagePublisher {
	if r.AMQP == nil {
		return nil
	}
	return r.AMQP
}

// TransactionExporter returns the Sheets client as a port, or a nil interface.
func (r *Result) TransactionExporter() ports.TransactionExporter {
	if r.Sheets == nil {
		return nil
	}
	return r.Sheets
}

// ReportExporter returns the Sheets client as a port, or a nil interface.
func (r *Result) ReportExporter() ports.ReportExporter {
	if r.Sheets == nil {
		return nil
	}
	return r.Sheets
}

// Ping checks that the store is reachable.
func (r *Result) Ping(ctx context.Context) error {
	if r.SQLite != nil {
		return r.SQLite.Ping(ctx)
	}
	return nil
}

type Factory struct {
	logger *slog.Logger
	// sheetsOptions is passed to the Sheets client; tests point it at a fake.
	sheetsOptions gsheet.Options
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the backend described by config. Optional components that
// fail to start are logged and left out; a store that fails is an error.
func (f *Factory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *Result
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLite(config)
	case MemoryBackend:
		res, err = f.createMemory(config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	closers := []func() error{}
	if res.SQLite != nil {
		closers = append(closers, res.SQLite.Close)
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, config.AMQPReportQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without messaging", "error", err)
		} else {
			res.AMQP = client
			closers = append(closers, client.Close)
			f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
		}
	}

	if config.GoogleSpreadsheetID != "" {
		opts := f.sheetsOptions
		opts.SpreadsheetID = config.GoogleSpreadsheetID
		opts.TransactionsSheet = config.GoogleSheetName
		opts.CredentialsFile = config.GoogleServiceAccountFile
		opts.CredentialsJSON = config.GoogleServiceAccountJSON
		client, err := gsheet.New(ctx, opts)
		if err != nil {
			f.logger.Warn("Failed to initialize Google Sheets client, export disabled", "error", err)
		} else {
			res.Sheets = client
			f.logger.Info("Initialized Google Sheets exporter", "spreadsheet_id", config.GoogleSpreadsheetID)
		}
	}

	res.Cleanup = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	return res, nil
}

func (f *Factory) createSQLite(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &Result{Store: repo, SQLite: repo}, nil
}

func (f *Factory) createMemory(config Config) (*Result, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	var opts []memory.Option
	if config.Segment != "" {
		seg, err := segments.Lookup(config.Segment)
		if err != nil {
			return nil, err
		}
		opts = append(opts, memory.WithDefaultTaxonomy(seg.IncomeCategories, seg.ExpenseCategories))
	}

	store, err := memory.NewFromFiles(dataDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "data_directory", dataDir, "segment", config.Segment)
	return &Result{Store: store}, nil
}
