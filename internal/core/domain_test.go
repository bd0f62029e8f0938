package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-07-02")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2023-07-02" || d.MonthKey() != "2023-07" {
		t.Fatalf("unexpected date %s / %s", d, d.MonthKey())
	}
	for _, in := range []string{"", "2023-7-2", "02/07/2023", "2023-13-01", "2023-02-30"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestParseTransactionType(t *testing.T) {
	if tt, err := ParseTransactionType(" Income "); err != nil || tt != Income {
		t.Fatalf("expected income, got %q (err=%v)", tt, err)
	}
	if _, err := ParseTransactionType("transfer"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "t1",
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Amount:      Money{Cents: 100},
		Type:        Expense,
		Category:    "Despesas fixas",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Date: Date{}, Description: "a", Amount: Money{Cents: 1}, Type: Income, Category: "c"}, ErrInvalidDate},
		{Transaction{Date: NewDate(2025, 1, 1), Description: " ", Amount: Money{Cents: 1}, Type: Income, Category: "c"}, ErrEmptyDescription},
		{Transaction{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 0}, Type: Income, Category: "c"}, ErrInvalidAmount},
		{Transaction{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: -5}, Type: Income, Category: "c"}, ErrInvalidAmount},
		{Transaction{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Type: "gift", Category: "c"}, ErrInvalidType},
		{Transaction{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Type: Income, Category: ""}, ErrEmptyCategory},
	}
	for i, tc := range bads {
		if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction("Venda balcão", "1500,00", "2023-07-02", "income", "Vendas")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.ID == "" {
		t.Fatal("expected generated id")
	}
	if tx.Amount.Cents != 150000 || tx.Type != Income || tx.Date.String() != "2023-07-02" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	if _, err := NewTransaction("x", "-1", "2023-07-02", "income", "Vendas"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := NewTransaction("x", "10", "07/02/2023", "income", "Vendas"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := NewTransaction("x", "10", "2023-07-02", "refund", "Vendas"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if !IsValidationError(ErrEmptyCategory) || IsValidationError(errors.New("disk full")) {
		t.Fatal("IsValidationError misclassified")
	}
}

func TestTransactionJSON(t *testing.T) {
	tx := Transaction{ID: "a", Description: "d", Amount: Money{Cents: 80000}, Date: NewDate(2023, 7, 1), Type: Expense, Category: "Despesas fixas"}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"a","description":"d","amount":800.00,"date":"2023-07-01","type":"expense","category":"Despesas fixas"}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}
	var back Transaction
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != tx {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
