// Package ports declares the outbound interfaces the services depend on.
package ports

import (
	"context"
	"errors"

	"entrepreedge/internal/core"
)

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks -source=ports.go

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters.
type (
	TransactionStore interface {
		// Load returns every stored transaction in insertion order.
		Load(ctx context.Context) ([]core.Transaction, error)
		Append(ctx context.Context, tx core.Transaction) (ref string, err error)
	}

	ReportStore interface {
		SaveReport(ctx context.Context, r core.Report) error
		// ListReports returns reports newest first.
		ListReports(ctx context.Context) ([]core.Report, error)
		GetReport(ctx context.Context, id string) (core.Report, error)
	}

	TaxonomyReader interface {
		Categories(ctx context.Context, txType core.TransactionType) ([]string, error)
	}

	TransactionExporter interface {
		Export(ctx context.Context, tx core.Transaction) (ref string, err error)
	}

	ReportExporter interface {
		ExportReport(ctx context.Context, r core.Report) (ref string, err error)
	}

	// SyncMessagePublisher announces new transactions and report requests.
	SyncMessagePublisher interface {
		PublishTransactionSync(ctx context.Context, id string) error
		PublishReportRequest(ctx context.Context, t core.ReportType) error
	}
)
