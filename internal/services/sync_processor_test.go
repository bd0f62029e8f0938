package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"entrepreedge/internal/core"
	"entrepreedge/internal/ports"
	mock_ports "entrepreedge/internal/ports/mocks"
)

type fakeSyncStore struct {
	mu      sync.Mutex
	txs     map[string]core.Transaction
	order   []string
	synced  map[string]bool
	failed  map[string]error
	pendErr error
}

func newFakeSyncStore(txs ...core.Transaction) *fakeSyncStore {
	s := &fakeSyncStore{txs: map[string]core.Transaction{}, synced: map[string]bool{}, failed: map[string]error{}}
	for _, tx := range txs {
		s.txs[tx.ID] = tx
		s.order = append(s.order, tx.ID)
	}
	return s
}

func (s *fakeSyncStore) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, ports.ErrNotFound
	}
	return tx, nil
}

func (s *fakeSyncStore) PendingSync(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendErr != nil {
		return nil, s.pendErr
	}
	var out []core.Transaction
	for _, id := range s.order {
		if !s.synced[id] && len(out) < limit {
			out = append(out, s.txs[id])
		}
	}
	return out, nil
}

func (s *fakeSyncStore) MarkSynced(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced[id] = true
	delete(s.failed, id)
	return nil
}

func (s *fakeSyncStore) MarkSyncError(_ context.Context, id string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[id] = cause
	return nil
}

func testTx(t *testing.T, id string) core.Transaction {
	t.Helper()
	tx, err := core.NewTransaction("t", "10", "2023-07-02", "income", "Vendas")
	if err != nil {
		t.Fatal(err)
	}
	tx.ID = id
	return tx
}

func TestNewSyncProcessorDefaults(t *testing.T) {
	p := NewSyncProcessor(nil, nil, SyncProcessorConfig{})
	if p.config != DefaultSyncProcessorConfig() {
		t.Errorf("expected defaults, got %+v", p.config)
	}
	if p.IsRunning() {
		t.Error("processor should not be running initially")
	}
}

func TestSyncProcessor_SyncOne(t *testing.T) {
	ctrl := gomock.NewController(t)
	exporter := mock_ports.NewMockTransactionExporter(ctrl)
	store := newFakeSyncStore(testTx(t, "a"), testTx(t, "b"))
	p := NewSyncProcessor(store, exporter, DefaultSyncProcessorConfig())
	ctx := context.Background()

	exporter.EXPECT().Export(gomock.Any(), store.txs["a"]).Return("Transações!A2", nil)
	if err := p.SyncOne(ctx, "a"); err != nil {
		t.Fatalf("SyncOne: %v", err)
	}
	if !store.synced["a"] {
		t.Error("a should be marked synced")
	}

	boom := errors.New("quota")
	exporter.EXPECT().Export(gomock.Any(), store.txs["b"]).Return("", boom)
	if err := p.SyncOne(ctx, "b"); !errors.Is(err, boom) {
		t.Fatalf("expected export error, got %v", err)
	}
	if store.failed["b"] != boom {
		t.Error("b should carry its sync error")
	}

	if err := p.SyncOne(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncProcessor_ProcessBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	exporter := mock_ports.NewMockTransactionExporter(ctrl)
	store := newFakeSyncStore(testTx(t, "a"), testTx(t, "b"), testTx(t, "c"))
	p := NewSyncProcessor(store, exporter, SyncProcessorConfig{PollInterval: time.Hour, BatchSize: 2})
	ctx := context.Background()

	exporter.EXPECT().Export(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tx core.Transaction) (string, error) {
		if tx.ID == "b" {
			return "", errors.New("row rejected")
		}
		return "ok", nil
	}).Times(4)

	if n := p.ProcessBatch(ctx); n != 1 {
		t.Fatalf("first batch exported %d, want 1", n)
	}
	// b failed and stays pending ahead of c.
	if n := p.ProcessBatch(ctx); n != 1 {
		t.Fatalf("second batch exported %d, want 1", n)
	}
	if !store.synced["a"] || !store.synced["c"] || store.synced["b"] {
		t.Fatalf("unexpected sync state: %v", store.synced)
	}

	store.pendErr = errors.New("db locked")
	if n := p.ProcessBatch(ctx); n != 0 {
		t.Fatalf("expected no exports on store error, got %d", n)
	}
}

func TestSyncProcessor_StartStop(t *testing.T) {
	store := newFakeSyncStore()
	p := NewSyncProcessor(store, nil, SyncProcessorConfig{PollInterval: 10 * time.Millisecond, BatchSize: 5})
	ctx := context.Background()

	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop when not running: %v", err)
	}
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := p.Start(ctx); err == nil {
		t.Fatal("expected error when starting twice")
	}
	if !p.IsRunning() {
		t.Fatal("processor should be running")
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if p.IsRunning() {
		t.Fatal("processor should be stopped")
	}
}

func TestSyncProcessor_StartExportsPendingRightAway(t *testing.T) {
	ctrl := gomock.NewController(t)
	exporter := mock_ports.NewMockTransactionExporter(ctrl)
	store := newFakeSyncStore(testTx(t, "a"))
	p := NewSyncProcessor(store, exporter, SyncProcessorConfig{PollInterval: time.Hour, BatchSize: 5})

	exported := make(chan struct{})
	exporter.EXPECT().Export(gomock.Any(), store.txs["a"]).DoAndReturn(func(context.Context, core.Transaction) (string, error) {
		close(exported)
		return "Transações!A2", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-exported:
	case <-time.After(time.Second):
		t.Fatal("pending transaction not exported before the first tick")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.synced["a"] {
		t.Error("a should be marked synced")
	}
}
