// Package finance aggregates income and expense transactions into the figures
// shown on dashboards and stored in reports.
//
// Every function here is a pure transformation over a slice of already
// validated transactions. None of them fail; empty input produces zero or
// empty results. ProjectNext3Months is the only one that is not repeatable,
// because it draws an inflation factor from a RandomSource.
package finance

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"entrepreedge/internal/core"
)

// ProjectionMonths is how many months ProjectNext3Months looks back and forward.
const ProjectionMonths = 3

var (
	// Upper bounds (exclusive) of the uniform inflation factors.
	maxIncomeInflation  = 0.10
	maxExpenseInflation = 0.05

	hundred = decimal.NewFromInt(100)
)

// Totals is the overall income, expense and balance of a transaction set.
type Totals struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Balance core.Money `json:"balance"`
}

// RandomSource yields floats uniformly distributed in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeededSource returns a deterministic source for reproducible projections.
// It is safe for concurrent use.
func NewSeededSource(seed uint64) RandomSource {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// CalculateTotals sums income and expense amounts.
func CalculateTotals(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// ByCategory totals the transactions of one type per category, in the order
// each category is first seen. Categories without matching transactions are
// not listed.
func ByCategory(txs []core.Transaction, txType core.TransactionType) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0)
	index := make(map[string]int)
	for _, tx := range txs {
		if tx.Type != txType {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, core.CategoryAmount{Category: tx.Category})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	return out
}

// ByMonth groups transactions by YYYY-MM and returns one entry per month in
// ascending order. A month without income has a profit margin of 0.
func ByMonth(txs []core.Transaction) []core.MonthlyProfitability {
	sums := make(map[string]*core.MonthlyProfitability)
	for _, tx := range txs {
		key := tx.Date.MonthKey()
		m, ok := sums[key]
		if !ok {
			m = &core.MonthlyProfitability{Month: key}
			sums[key] = m
		}
		switch tx.Type {
		case core.Income:
			m.Income = m.Income.Add(tx.Amount)
		case core.Expense:
			m.Expense = m.Expense.Add(tx.Amount)
		}
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	// Fixed-width YYYY-MM keys sort chronologically as strings.
	sort.Strings(keys)

	out := make([]core.MonthlyProfitability, 0, len(keys))
	for _, k := range keys {
		m := sums[k]
		m.Profit = m.Income.Sub(m.Expense)
		m.ProfitMargin = profitMargin(m.Profit, m.Income)
		out = append(out, *m)
	}
	return out
}

func profitMargin(profit, income core.Money) float64 {
	if income.Cents <= 0 {
		return 0
	}
	return decimal.NewFromInt(profit.Cents).
		Mul(hundred).
		Div(decimal.NewFromInt(income.Cents)).
		InexactFloat64()
}

// ProjectNext3Months estimates income and expense for the three calendar
// months after now. The base is the mean of the last (up to) three months
// that have transactions; each projected month applies an independent
// uniform inflation of [0, 10%) to income and [0, 5%) to expense.
// Amounts are truncated to whole cents. A nil rnd uses the process-wide
// unseeded generator.
func ProjectNext3Months(txs []core.Transaction, now time.Time, rnd RandomSource) []core.ProjectedMonth {
	if rnd == nil {
		rnd = globalSource{}
	}

	months := ByMonth(txs)
	if len(months) > ProjectionMonths {
		months = months[len(months)-ProjectionMonths:]
	}

	avgIncome, avgExpense := decimal.Zero, decimal.Zero
	if n := len(months); n > 0 {
		var income, expense int64
		for _, m := range months {
			income += m.Income.Cents
			expense += m.Expense.Cents
		}
		count := decimal.NewFromInt(int64(n))
		avgIncome = decimal.NewFromInt(income).Div(count)
		avgExpense = decimal.NewFromInt(expense).Div(count)
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]core.ProjectedMonth, 0, ProjectionMonths)
	for i := 1; i <= ProjectionMonths; i++ {
		out = append(out, core.ProjectedMonth{
			Month:            start.AddDate(0, i, 0).Format(core.MonthLayout),
			ProjectedIncome:  inflate(avgIncome, rnd.Float64()*maxIncomeInflation),
			ProjectedExpense: inflate(avgExpense, rnd.Float64()*maxExpenseInflation),
		})
	}
	return out
}

func inflate(baseCents decimal.Decimal, rate float64) core.Money {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate))
	return core.Money{Cents: baseCents.Mul(factor).Truncate(0).IntPart()}
}
