package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"entrepreedge/internal/core"
	"entrepreedge/internal/finance"
	"entrepreedge/internal/ports"
)

// CreateTransactionInput is the raw, unvalidated form of a new transaction.
type CreateTransactionInput struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// TransactionService validates and stores transactions and answers the
// aggregate queries over them.
type TransactionService struct {
	store     ports.TransactionStore
	publisher ports.SyncMessagePublisher
	now       func() time.Time
	rnd       finance.RandomSource
}

// NewTransactionService accepts a nil publisher; sync messages are then skipped.
func NewTransactionService(store ports.TransactionStore, publisher ports.SyncMessagePublisher, opts ...Option) *TransactionService {
	o := applyOptions(opts)
	return &TransactionService{
		store:     store,
		publisher: publisher,
		now:       o.now,
		rnd:       o.rnd,
	}
}

// Create validates the input, stores the transaction and announces it for
// export. A failed announcement is logged; the transaction stays stored.
func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (core.Transaction, string, error) {
	tx, err := core.NewTransaction(in.Description, in.Amount, in.Date, in.Type, in.Category)
	if err != nil {
		return core.Transaction{}, "", err
	}

	ref, err := s.store.Append(ctx, tx)
	if err != nil {
		return core.Transaction{}, "", fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping sync message", "id", tx.ID)
		return tx, ref, nil
	}
	if err := s.publisher.PublishTransactionSync(ctx, tx.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", tx.ID, "error", err)
	}
	return tx, ref, nil
}

// Import stores already validated transactions in order and stops at the
// first failure, returning how many were stored.
func (s *TransactionService) Import(ctx context.Context, txs []core.Transaction) (int, error) {
	for i, tx := range txs {
		if _, err := s.store.Append(ctx, tx); err != nil {
			return i, fmt.Errorf("import transaction %d: %w", i+1, err)
		}
		if s.publisher != nil {
			if err := s.publisher.PublishTransactionSync(ctx, tx.ID); err != nil {
				slog.WarnContext(ctx, "Failed to publish sync message", "id", tx.ID, "error", err)
			}
		}
	}
	return len(txs), nil
}

// List returns the stored transactions matching f.
func (s *TransactionService) List(ctx context.Context, f finance.Filter) ([]core.Transaction, error) {
	txs, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return f.Apply(txs), nil
}

func (s *TransactionService) Totals(ctx context.Context) (finance.Totals, error) {
	txs, err := s.List(ctx, finance.Filter{})
	if err != nil {
		return finance.Totals{}, err
	}
	return finance.CalculateTotals(txs), nil
}

func (s *TransactionService) ByCategory(ctx context.Context, txType core.TransactionType) ([]core.CategoryAmount, error) {
	if !txType.IsValid() {
		return nil, core.ErrInvalidType
	}
	txs, err := s.List(ctx, finance.Filter{})
	if err != nil {
		return nil, err
	}
	return finance.ByCategory(txs, txType), nil
}

func (s *TransactionService) ByMonth(ctx context.Context) ([]core.MonthlyProfitability, error) {
	txs, err := s.List(ctx, finance.Filter{})
	if err != nil {
		return nil, err
	}
	return finance.ByMonth(txs), nil
}

// Projection projects the three months following the service clock's month.
func (s *TransactionService) Projection(ctx context.Context) ([]core.ProjectedMonth, error) {
	txs, err := s.List(ctx, finance.Filter{})
	if err != nil {
		return nil, err
	}
	return finance.ProjectNext3Months(txs, s.now(), s.rnd), nil
}
