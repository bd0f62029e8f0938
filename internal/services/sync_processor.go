package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"entrepreedge/internal/core"
	"entrepreedge/internal/ports"
)

// SyncStore is the bookkeeping a store needs to support exports.
type SyncStore interface {
	Get(ctx context.Context, id string) (core.Transaction, error)
	PendingSync(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string, cause error) error
}

// SyncProcessorConfig holds configuration for the sync processor
type SyncProcessorConfig struct {
	// PollInterval is how often to sweep for unexported transactions (default: 1m)
	PollInterval time.Duration

	// BatchSize is the max number of transactions exported per sweep (default: 20)
	BatchSize int
}

func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval: time.Minute,
		BatchSize:    20,
	}
}

// SyncProcessor exports stored transactions. SyncOne serves queue messages;
// the sweep loop started by Start picks up anything a lost message missed.
type SyncProcessor struct {
	store    SyncStore
	exporter ports.TransactionExporter
	config   SyncProcessorConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSyncProcessor(store SyncStore, exporter ports.TransactionExporter, config SyncProcessorConfig) *SyncProcessor {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultSyncProcessorConfig().PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultSyncProcessorConfig().BatchSize
	}
	return &SyncProcessor{
		store:    store,
		exporter: exporter,
		config:   config,
	}
}

// SyncOne exports the transaction with the given ID. Export failures are
// recorded on the transaction and returned so the message is retried.
func (p *SyncProcessor) SyncOne(ctx context.Context, id string) error {
	tx, err := p.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction %s: %w", id, err)
	}
	return p.export(ctx, tx)
}

func (p *SyncProcessor) export(ctx context.Context, tx core.Transaction) error {
	ref, err := p.exporter.Export(ctx, tx)
	if err != nil {
		if markErr := p.store.MarkSyncError(ctx, tx.ID, err); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark transaction sync error", "id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("export transaction %s: %w", tx.ID, err)
	}

	if err := p.store.MarkSynced(ctx, tx.ID); err != nil {
		// The export happened; the sweep may export it again.
		slog.WarnContext(ctx, "Failed to mark transaction as synced", "id", tx.ID, "error", err)
	}
	slog.InfoContext(ctx, "Exported transaction", "id", tx.ID, "ref", ref)
	return nil
}

// Start begins the sweep loop. Returns an error if already running.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Sync processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize)
	return nil
}

// Stop signals the loop and waits for it to finish or ctx to expire.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Sync processor stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}
}

func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SyncProcessor) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.ProcessBatch(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch exports one batch of pending transactions and returns how
// many were exported.
func (p *SyncProcessor) ProcessBatch(ctx context.Context) int {
	pending, err := p.store.PendingSync(ctx, p.config.BatchSize)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load pending transactions", "error", err)
		return 0
	}
	if len(pending) == 0 {
		return 0
	}

	slog.DebugContext(ctx, "Processing sync batch", "count", len(pending))

	done := 0
	for _, tx := range pending {
		if ctx.Err() != nil {
			break
		}
		if err := p.export(ctx, tx); err != nil {
			slog.WarnContext(ctx, "Sync processing failed", "id", tx.ID, "error", err)
			continue
		}
		done++
	}
	return done
}
