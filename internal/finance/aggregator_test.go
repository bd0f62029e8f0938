package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entrepreedge/internal/core"
)

func tx(amount int64, typ core.TransactionType, category, date string) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		ID:          date + category,
		Description: category,
		Amount:      core.Money{Cents: amount * 100},
		Date:        d,
		Type:        typ,
		Category:    category,
	}
}

func money(units int64) core.Money {
	return core.Money{Cents: units * 100}
}

// sequence replays fixed draws, then repeats the last one.
type sequence struct {
	values []float64
	i      int
}

func (s *sequence) Float64() float64 {
	v := s.values[min(s.i, len(s.values)-1)]
	s.i++
	return v
}

func sample() []core.Transaction {
	return []core.Transaction{
		tx(1500, core.Income, "Vendas", "2023-07-02"),
		tx(800, core.Expense, "Despesas fixas", "2023-07-01"),
		tx(500, core.Income, "Vendas", "2023-08-10"),
		tx(300, core.Income, "Serviços", "2023-08-11"),
		tx(200, core.Expense, "Marketing", "2023-08-15"),
		tx(100, core.Expense, "Despesas fixas", "2023-09-03"),
		tx(700, core.Income, "Vendas", "2023-06-30"),
	}
}

func TestCalculateTotals(t *testing.T) {
	got := CalculateTotals([]core.Transaction{
		tx(1500, core.Income, "Vendas", "2023-07-02"),
		tx(800, core.Expense, "Despesas fixas", "2023-07-01"),
	})
	assert.Equal(t, Totals{Income: money(1500), Expense: money(800), Balance: money(700)}, got)
}

func TestCalculateTotals_Empty(t *testing.T) {
	assert.Equal(t, Totals{}, CalculateTotals(nil))
}

func TestCalculateTotals_BalanceHoldsForEveryPrefix(t *testing.T) {
	txs := sample()
	for i := 0; i <= len(txs); i++ {
		got := CalculateTotals(txs[:i])
		assert.Equal(t, got.Income.Cents-got.Expense.Cents, got.Balance.Cents, "prefix %d", i)
	}
}

func TestByCategory(t *testing.T) {
	txs := []core.Transaction{
		tx(1500, core.Income, "Vendas", "2023-07-02"),
		tx(500, core.Income, "Vendas", "2023-07-05"),
	}
	assert.Equal(t, []core.CategoryAmount{{Category: "Vendas", Amount: money(2000)}}, ByCategory(txs, core.Income))
}

func TestByCategory_FirstSeenOrderAndOmission(t *testing.T) {
	got := ByCategory(sample(), core.Expense)
	assert.Equal(t, []core.CategoryAmount{
		{Category: "Despesas fixas", Amount: money(900)},
		{Category: "Marketing", Amount: money(200)},
	}, got)

	assert.Empty(t, ByCategory([]core.Transaction{tx(10, core.Income, "Vendas", "2023-07-01")}, core.Expense))
}

func TestByCategory_Empty(t *testing.T) {
	got := ByCategory(nil, core.Income)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestByCategory_SumsToTypeTotal(t *testing.T) {
	txs := sample()
	totals := CalculateTotals(txs)
	for typ, want := range map[core.TransactionType]core.Money{core.Income: totals.Income, core.Expense: totals.Expense} {
		var sum core.Money
		for _, c := range ByCategory(txs, typ) {
			sum = sum.Add(c.Amount)
		}
		assert.Equal(t, want, sum, typ)
	}
}

func TestByMonth(t *testing.T) {
	got := ByMonth([]core.Transaction{
		tx(500, core.Income, "Vendas", "2023-08-10"),
		tx(1500, core.Income, "Vendas", "2023-07-02"),
		tx(800, core.Expense, "Despesas fixas", "2023-07-01"),
		tx(200, core.Expense, "Marketing", "2023-08-15"),
	})
	require.Len(t, got, 2)

	assert.Equal(t, "2023-07", got[0].Month)
	assert.Equal(t, money(1500), got[0].Income)
	assert.Equal(t, money(800), got[0].Expense)
	assert.Equal(t, money(700), got[0].Profit)
	assert.InDelta(t, 46.6666, got[0].ProfitMargin, 0.001)

	assert.Equal(t, "2023-08", got[1].Month)
	assert.Equal(t, money(300), got[1].Profit)
	assert.InDelta(t, 60.0, got[1].ProfitMargin, 1e-9)
}

func TestByMonth_StrictlyIncreasing(t *testing.T) {
	got := ByMonth(sample())
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Month, got[i].Month)
	}
}

func TestByMonth_ExpenseOnlyMonthHasZeroMargin(t *testing.T) {
	got := ByMonth([]core.Transaction{tx(100, core.Expense, "Despesas fixas", "2023-09-03")})
	require.Len(t, got, 1)
	assert.Equal(t, float64(0), got[0].ProfitMargin)
	assert.Equal(t, int64(-10000), got[0].Profit.Cents)
}

func TestByMonth_Empty(t *testing.T) {
	got := ByMonth(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregatesAreIdempotent(t *testing.T) {
	txs := sample()
	assert.Equal(t, CalculateTotals(txs), CalculateTotals(txs))
	assert.Equal(t, ByCategory(txs, core.Income), ByCategory(txs, core.Income))
	assert.Equal(t, ByMonth(txs), ByMonth(txs))
}

func TestProjectNext3Months_SingleIncomeMonth(t *testing.T) {
	txs := []core.Transaction{tx(1000, core.Income, "Vendas", "2023-07-02")}
	now := time.Date(2023, 7, 20, 12, 0, 0, 0, time.UTC)

	got := ProjectNext3Months(txs, now, nil)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2023-08", "2023-09", "2023-10"}, []string{got[0].Month, got[1].Month, got[2].Month})
	for _, p := range got {
		assert.GreaterOrEqual(t, p.ProjectedIncome.Cents, int64(100000))
		assert.Less(t, p.ProjectedIncome.Cents, int64(110000))
		assert.Equal(t, int64(0), p.ProjectedExpense.Cents)
	}
}

func TestProjectNext3Months_UpperBoundStaysExclusive(t *testing.T) {
	txs := []core.Transaction{tx(1000, core.Income, "Vendas", "2023-07-02"), tx(1000, core.Expense, "Aluguel", "2023-07-02")}
	got := ProjectNext3Months(txs, time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), &sequence{values: []float64{0.9999999999}})
	for _, p := range got {
		assert.Less(t, p.ProjectedIncome.Cents, int64(110000))
		assert.Less(t, p.ProjectedExpense.Cents, int64(105000))
	}
}

func TestProjectNext3Months_UsesTrailingThreeMonths(t *testing.T) {
	// 2023-06 has 700 of income and falls outside the trailing window.
	now := time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC)
	src := &sequence{values: []float64{0.5, 0.2, 0, 0, 1.0 / 3, 0.5}}

	got := ProjectNext3Months(sample(), now, src)
	require.Len(t, got, 3)

	// Trailing months 07, 08, 09: income 1500+800+0, expense 800+200+100.
	// avgIncome = 766.666..., avgExpense = 366.666...
	assert.Equal(t, core.ProjectedMonth{Month: "2023-10", ProjectedIncome: core.Money{Cents: 80500}, ProjectedExpense: core.Money{Cents: 37033}}, got[0])
	assert.Equal(t, core.ProjectedMonth{Month: "2023-11", ProjectedIncome: core.Money{Cents: 76666}, ProjectedExpense: core.Money{Cents: 36666}}, got[1])
	assert.Equal(t, "2023-12", got[2].Month)
	assert.Equal(t, int64(79222), got[2].ProjectedIncome.Cents)
	assert.Equal(t, int64(37583), got[2].ProjectedExpense.Cents)
}

func TestProjectNext3Months_NoData(t *testing.T) {
	got := ProjectNext3Months(nil, time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC), nil)
	require.Len(t, got, 3)
	assert.Equal(t, "2023-12", got[0].Month)
	assert.Equal(t, "2024-01", got[1].Month)
	assert.Equal(t, "2024-02", got[2].Month)
	for _, p := range got {
		assert.Zero(t, p.ProjectedIncome.Cents)
		assert.Zero(t, p.ProjectedExpense.Cents)
	}
}

func TestProjectNext3Months_MonthEndDoesNotSkipMonths(t *testing.T) {
	got := ProjectNext3Months(nil, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), nil)
	assert.Equal(t, "2024-02", got[0].Month)
	assert.Equal(t, "2024-03", got[1].Month)
	assert.Equal(t, "2024-04", got[2].Month)
}

func TestProjectNext3Months_SeededSourceIsReproducible(t *testing.T) {
	now := time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC)
	a := ProjectNext3Months(sample(), now, NewSeededSource(42))
	b := ProjectNext3Months(sample(), now, NewSeededSource(42))
	assert.Equal(t, a, b)
}

func TestFilterApply(t *testing.T) {
	txs := sample()
	assert.Len(t, Filter{}.Apply(txs), len(txs))
	assert.Len(t, Filter{Type: core.Income}.Apply(txs), 4)
	assert.Len(t, Filter{Month: "2023-08"}.Apply(txs), 3)
	assert.Len(t, Filter{Type: core.Expense, Month: "2023-08"}.Apply(txs), 1)
}
