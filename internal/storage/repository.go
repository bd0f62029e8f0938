package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entrepreedge/internal/core"
	"entrepreedge/internal/ports"

	_ "modernc.org/sqlite"
)

// Timestamps are stored as fixed-width UTC text so string ordering is
// chronological and the driver does no time conversion.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Sync states of a stored transaction.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncFailed  = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Append implements ports.TransactionStore. The returned reference is the
// transaction ID.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, description, amount_cents, date, type, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Description, tx.Amount.Cents, tx.Date.String(), string(tx.Type), tx.Category,
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.String())

	return tx.ID, nil
}

// Load implements ports.TransactionStore.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, date, type, category FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// Get returns one transaction by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, description, amount_cents, date, type, category FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

// PendingSync returns up to limit transactions not yet exported, oldest first.
// Failed exports are retried.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, date, type, category FROM transactions
		 WHERE sync_status IN (?, ?) ORDER BY seq LIMIT ?`,
		SyncPending, SyncFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// MarkSynced records a successful export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := r.setSyncStatus(ctx, id, SyncDone, ""); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed export so the sweep retries it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := r.setSyncStatus(ctx, id, SyncFailed, msg); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id, "error", msg)
	return nil
}

// SyncStatus returns the sync state of a transaction.
func (r *SQLiteRepository) SyncStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT sync_status FROM transactions WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get sync status: %w", err)
	}
	return status, nil
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id, status, syncErr string) error {
	var syncedAt any
	if status == SyncDone {
		syncedAt = time.Now().UTC().Format(timeLayout)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ?, synced_at = ?, sync_error = NULLIF(?, '') WHERE id = ?`,
		status, syncedAt, syncErr, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	return nil
}

// Categories implements ports.TaxonomyReader: the configured categories in
// position order, followed by any other category used by stored transactions.
func (r *SQLiteRepository) Categories(ctx context.Context, txType core.TransactionType) ([]string, error) {
	if !txType.IsValid() {
		return nil, core.ErrInvalidType
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM (
			SELECT name, 0 AS src, position AS ord FROM categories WHERE type = ?
			UNION ALL
			SELECT category, 1, MIN(seq) FROM transactions
			WHERE type = ? AND category NOT IN (SELECT name FROM categories WHERE type = ?)
			GROUP BY category
		) ORDER BY src, ord, name`,
		string(txType), string(txType), string(txType))
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SyncCategories replaces the configured categories of one type, keeping the
// given order. Blank names are skipped.
func (r *SQLiteRepository) SyncCategories(ctx context.Context, txType core.TransactionType, names []string) error {
	if !txType.IsValid() {
		return core.ErrInvalidType
	}
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM categories WHERE type = ?`, string(txType)); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	pos := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		pos++
		if _, err := dbtx.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (name, type, position) VALUES (?, ?, ?)`,
			name, string(txType), pos); err != nil {
			return fmt.Errorf("insert category %q: %w", name, err)
		}
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit categories: %w", err)
	}

	slog.InfoContext(ctx, "Categories synced", "type", txType, "count", pos)
	return nil
}

// SaveReport implements ports.ReportStore.
func (r *SQLiteRepository) SaveReport(ctx context.Context, rep core.Report) error {
	if err := rep.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rep.Data)
	if err != nil {
		return fmt.Errorf("marshal report data: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reports (id, title, description, generated_at, type, data) VALUES (?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.Title, rep.Description, rep.DateGenerated.UTC().Format(timeLayout), string(rep.Type), string(data))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	slog.InfoContext(ctx, "Report saved to SQLite", "id", rep.ID, "type", rep.Type)
	return nil
}

// ListReports implements ports.ReportStore, newest first.
func (r *SQLiteRepository) ListReports(ctx context.Context) ([]core.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, generated_at, type, data FROM reports ORDER BY generated_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	out := make([]core.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// GetReport implements ports.ReportStore.
func (r *SQLiteRepository) GetReport(ctx context.Context, id string) (core.Report, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, generated_at, type, data FROM reports WHERE id = ?`, id)
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Report{}, fmt.Errorf("report %s: %w", id, ports.ErrNotFound)
	}
	return rep, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		tx          core.Transaction
		date, txTyp string
	)
	if err := s.Scan(&tx.ID, &tx.Description, &tx.Amount.Cents, &date, &txTyp, &tx.Category); err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	tx.Date = d
	tx.Type = core.TransactionType(txTyp)
	return tx, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func scanReport(s scanner) (core.Report, error) {
	var (
		rep             core.Report
		generated, data string
		repType         string
	)
	if err := s.Scan(&rep.ID, &rep.Title, &rep.Description, &generated, &repType, &data); err != nil {
		return core.Report{}, err
	}
	at, err := time.Parse(timeLayout, generated)
	if err != nil {
		return core.Report{}, fmt.Errorf("report %s: parse generated_at: %w", rep.ID, err)
	}
	rep.DateGenerated = at
	rep.Type = core.ReportType(repType)
	if err := json.Unmarshal([]byte(data), &rep.Data); err != nil {
		return core.Report{}, fmt.Errorf("report %s: decode data: %w", rep.ID, err)
	}
	return rep, nil
}
