package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ReportExpenses      ReportType = "expenses"
	ReportIncome        ReportType = "income"
	ReportProfitability ReportType = "profitability"
	ReportProjection    ReportType = "projection"
)

var (
	ErrInvalidReportType  = errors.New("invalid report type")
	ErrReportDataMismatch = errors.New("report data does not match report type")
)

type (
	ReportType string

	// CategoryAmount is the total of one category for a given transaction type.
	CategoryAmount struct {
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
	}

	// MonthlyProfitability summarizes a single YYYY-MM month.
	MonthlyProfitability struct {
		Month        string  `json:"month"`
		Income       Money   `json:"income"`
		Expense      Money   `json:"expense"`
		Profit       Money   `json:"profit"`
		ProfitMargin float64 `json:"profitMargin"`
	}

	// ProjectedMonth is one forward month of a projection.
	ProjectedMonth struct {
		Month            string `json:"month"`
		ProjectedIncome  Money  `json:"projectedIncome"`
		ProjectedExpense Money  `json:"projectedExpense"`
	}

	// ReportData holds exactly one populated payload, selected by the report type.
	ReportData struct {
		Categories []CategoryAmount       `json:"categories"`
		Monthly    []MonthlyProfitability `json:"monthly"`
		Projection []ProjectedMonth       `json:"projection"`
	}

	Report struct {
		ID            string     `json:"id"`
		Title         string     `json:"title"`
		Description   string     `json:"description"`
		DateGenerated time.Time  `json:"dateGenerated"`
		Type          ReportType `json:"type"`
		Data          ReportData `json:"data"`
	}
)

// ParseReportType accepts one of the four report types in any case.
func ParseReportType(s string) (ReportType, error) {
	t := ReportType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidReportType, s)
	}
	return t, nil
}

func (t ReportType) IsValid() bool {
	switch t {
	case ReportExpenses, ReportIncome, ReportProfitability, ReportProjection:
		return true
	default:
		return false
	}
}

func (t ReportType) String() string {
	return string(t)
}

// Kind reports which payload member is populated: "categories", "monthly",
// "projection", "" for none and "mixed" when more than one is set.
func (d ReportData) Kind() string {
	kinds := make([]string, 0, 1)
	if d.Categories != nil {
		kinds = append(kinds, "categories")
	}
	if d.Monthly != nil {
		kinds = append(kinds, "monthly")
	}
	if d.Projection != nil {
		kinds = append(kinds, "projection")
	}
	switch len(kinds) {
	case 0:
		return ""
	case 1:
		return kinds[0]
	default:
		return "mixed"
	}
}

func (t ReportType) payloadKind() string {
	switch t {
	case ReportExpenses, ReportIncome:
		return "categories"
	case ReportProfitability:
		return "monthly"
	case ReportProjection:
		return "projection"
	}
	return ""
}

func (r Report) Validate() error {
	if !r.Type.IsValid() {
		return ErrInvalidReportType
	}
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("report id cannot be empty")
	}
	if r.DateGenerated.IsZero() {
		return errors.New("report generation time cannot be zero")
	}
	if r.Data.Kind() != r.Type.payloadKind() {
		return fmt.Errorf("%w: type %s carries %q", ErrReportDataMismatch, r.Type, r.Data.Kind())
	}
	return nil
}
