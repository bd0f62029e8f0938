package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entrepreedge/internal/core"
	"entrepreedge/internal/ports"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTx(t *testing.T, amount, date, typ, category string) core.Transaction {
	t.Helper()
	tx, err := core.NewTransaction("desc "+category, amount, date, typ, category)
	require.NoError(t, err)
	return tx
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	v1, err := RunMigrations(path)
	require.NoError(t, err)
	v2, err := RunMigrations(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v1)
	assert.Equal(t, v1, v2)
}

func TestSQLiteRepository_AppendLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	a := newTx(t, "1500", "2023-07-02", "income", "Vendas")
	b := newTx(t, "800,10", "2023-07-01", "expense", "Despesas fixas")

	ref, err := repo.Append(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a.ID, ref)
	_, err = repo.Append(ctx, b)
	require.NoError(t, err)

	_, err = repo.Append(ctx, a)
	assert.Error(t, err, "duplicate id must be rejected")

	_, err = repo.Append(ctx, core.Transaction{ID: "x"})
	assert.True(t, core.IsValidationError(err))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Transaction{a, b}, got)

	one, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, one)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSQLiteRepository_LoadEmpty(t *testing.T) {
	got, err := newTestRepo(t).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLiteRepository_SyncBookkeeping(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	a := newTx(t, "10", "2023-07-02", "income", "Vendas")
	b := newTx(t, "20", "2023-07-03", "expense", "Marketing")
	c := newTx(t, "30", "2023-07-04", "expense", "Marketing")
	for _, tx := range []core.Transaction{a, b, c} {
		_, err := repo.Append(ctx, tx)
		require.NoError(t, err)
	}

	pending, err := repo.PendingSync(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, a.ID, pending[0].ID)
	assert.Equal(t, b.ID, pending[1].ID)

	require.NoError(t, repo.MarkSynced(ctx, a.ID))
	require.NoError(t, repo.MarkSyncError(ctx, b.ID, errors.New("quota exceeded")))

	status, err := repo.SyncStatus(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, SyncDone, status)
	status, err = repo.SyncStatus(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, SyncFailed, status)

	pending, err = repo.PendingSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2, "failed exports are retried")
	assert.Equal(t, b.ID, pending[0].ID)
	assert.Equal(t, c.ID, pending[1].ID)

	assert.ErrorIs(t, repo.MarkSynced(ctx, "missing"), ports.ErrNotFound)
}

func TestSQLiteRepository_Categories(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	inc, err := repo.Categories(ctx, core.Income)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vendas", "Serviços", "Outras receitas"}, inc)

	_, err = repo.Append(ctx, newTx(t, "5", "2023-07-02", "expense", "Viagens"))
	require.NoError(t, err)
	_, err = repo.Append(ctx, newTx(t, "5", "2023-07-03", "expense", "Marketing"))
	require.NoError(t, err)

	exp, err := repo.Categories(ctx, core.Expense)
	require.NoError(t, err)
	assert.Equal(t, []string{"Despesas fixas", "Fornecedores", "Marketing", "Impostos", "Viagens"}, exp)

	require.NoError(t, repo.SyncCategories(ctx, core.Income, []string{"Consultoria", " ", "Vendas", "Consultoria"}))
	inc, err = repo.Categories(ctx, core.Income)
	require.NoError(t, err)
	assert.Equal(t, []string{"Consultoria", "Vendas"}, inc)

	_, err = repo.Categories(ctx, "transfer")
	assert.ErrorIs(t, err, core.ErrInvalidType)
	assert.ErrorIs(t, repo.SyncCategories(ctx, "transfer", nil), core.ErrInvalidType)
}

func TestSQLiteRepository_Reports(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2023, 9, 1, 10, 0, 0, 123, time.UTC)

	older := core.Report{
		ID: "r1", Title: "Receitas", Description: "por categoria", DateGenerated: base, Type: core.ReportIncome,
		Data: core.ReportData{Categories: []core.CategoryAmount{{Category: "Vendas", Amount: core.Money{Cents: 200000}}}},
	}
	newer := core.Report{
		ID: "r2", Title: "Projeção", DateGenerated: base.Add(time.Minute), Type: core.ReportProjection,
		Data: core.ReportData{Projection: []core.ProjectedMonth{}},
	}
	require.NoError(t, repo.SaveReport(ctx, older))
	require.NoError(t, repo.SaveReport(ctx, newer))

	err := repo.SaveReport(ctx, core.Report{ID: "bad", Type: core.ReportIncome, DateGenerated: base})
	assert.ErrorIs(t, err, core.ErrReportDataMismatch)

	list, err := repo.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID)
	assert.Equal(t, older, list[1])
	assert.NoError(t, list[0].Validate(), "empty payloads survive storage")

	got, err := repo.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, older, got)

	_, err = repo.GetReport(ctx, "nope")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
