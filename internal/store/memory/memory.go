// Package memory is an in-process store used for development and tests.
package memory

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"entrepreedge/internal/core"
	"entrepreedge/internal/csvimport"
	"entrepreedge/internal/ports"
)

var (
	defaultIncome  = []string{"Vendas", "Serviços", "Outras receitas"}
	defaultExpense = []string{"Despesas fixas", "Fornecedores", "Marketing", "Impostos"}
)

type Store struct {
	mu      sync.RWMutex
	income  []string
	expense []string
	items   []core.Transaction
	reports []core.Report
}

func New(income, expense []string) *Store {
	return &Store{income: dedupe(income), expense: dedupe(expense)}
}

// Option adjusts how NewFromFiles seeds a store.
type Option func(*seedOptions)

type seedOptions struct {
	income, expense []string
}

// WithDefaultTaxonomy replaces the built-in categories used when the seed
// category files are missing.
func WithDefaultTaxonomy(income, expense []string) Option {
	return func(o *seedOptions) {
		if len(income) > 0 {
			o.income = income
		}
		if len(expense) > 0 {
			o.expense = expense
		}
	}
}

// NewFromFiles seeds the store from base/seed_transactions.csv and the
// optional base/seed_income.txt and base/seed_expense.txt category lists.
// Missing files fall back to the default taxonomy.
func NewFromFiles(base string, opts ...Option) (*Store, error) {
	o := seedOptions{income: defaultIncome, expense: defaultExpense}
	for _, opt := range opts {
		opt(&o)
	}

	income := readLines(filepath.Join(base, "seed_income.txt"))
	expense := readLines(filepath.Join(base, "seed_expense.txt"))
	if len(income) == 0 {
		income = o.income
	}
	if len(expense) == 0 {
		expense = o.expense
	}
	s := New(income, expense)

	txs, err := csvimport.ReadFile(filepath.Join(base, "seed_transactions.csv"))
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed transactions: %w", err)
	}
	s.items = txs
	return s, nil
}

// Load returns a copy of the stored transactions in insertion order.
func (s *Store) Load(_ context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]core.Transaction, 0, len(s.items)), s.items...), nil
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Get returns one transaction by ID.
func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tx := range s.items {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
}

// Categories lists the configured categories plus any used by stored
// transactions of the same type.
func (s *Store) Categories(_ context.Context, txType core.TransactionType) ([]string, error) {
	if !txType.IsValid() {
		return nil, core.ErrInvalidType
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	base := s.expense
	if txType == core.Income {
		base = s.income
	}
	cats := append([]string(nil), base...)
	for _, tx := range s.items {
		if tx.Type == txType {
			cats = append(cats, tx.Category)
		}
	}
	return dedupe(cats), nil
}

func (s *Store) SaveReport(_ context.Context, r core.Report) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return nil
}

// ListReports returns reports newest first.
func (s *Store) ListReports(_ context.Context) ([]core.Report, error) {
	s.mu.RLock()
	out := append(make([]core.Report, 0, len(s.reports)), s.reports...)
	s.mu.RUnlock()

	// Reports saved later win ties on DateGenerated.
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateGenerated.After(out[j].DateGenerated) })
	return out, nil
}

func (s *Store) GetReport(_ context.Context, id string) (core.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Report{}, fmt.Errorf("report %s: %w", id, ports.ErrNotFound)
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, keeping first-seen order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
