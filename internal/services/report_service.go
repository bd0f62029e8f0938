package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"entrepreedge/internal/core"
	"entrepreedge/internal/finance"
	"entrepreedge/internal/ports"
)

// ErrAsyncUnavailable is returned by Request when no publisher is configured.
var ErrAsyncUnavailable = errors.New("asynchronous report generation is not configured")

var reportTexts = map[core.ReportType]struct{ title, description string }{
	core.ReportExpenses:      {"Relatório de Despesas", "Despesas agrupadas por categoria"},
	core.ReportIncome:        {"Relatório de Receitas", "Receitas agrupadas por categoria"},
	core.ReportProfitability: {"Análise de Lucratividade", "Receitas, despesas, lucro e margem por mês"},
	core.ReportProjection:    {"Projeção Financeira", "Estimativa dos próximos 3 meses com base na média dos últimos 3 meses"},
}

// BuildReport runs the aggregation that matches t over txs. The report gets
// a fresh ID and now as its generation time.
func BuildReport(t core.ReportType, txs []core.Transaction, now time.Time, rnd finance.RandomSource) (core.Report, error) {
	if !t.IsValid() {
		return core.Report{}, fmt.Errorf("%w: %q", core.ErrInvalidReportType, t)
	}

	var data core.ReportData
	switch t {
	case core.ReportExpenses:
		data.Categories = finance.ByCategory(txs, core.Expense)
	case core.ReportIncome:
		data.Categories = finance.ByCategory(txs, core.Income)
	case core.ReportProfitability:
		data.Monthly = finance.ByMonth(txs)
	case core.ReportProjection:
		data.Projection = finance.ProjectNext3Months(txs, now, rnd)
	}

	text := reportTexts[t]
	r := core.Report{
		ID:            uuid.NewString(),
		Title:         text.title,
		Description:   text.description,
		DateGenerated: now.UTC(),
		Type:          t,
		Data:          data,
	}
	return r, r.Validate()
}

// ReportService generates, stores and optionally exports reports.
type ReportService struct {
	txs       ports.TransactionStore
	reports   ports.ReportStore
	exporter  ports.ReportExporter
	publisher ports.SyncMessagePublisher
	now       func() time.Time
	rnd       finance.RandomSource
}

// NewReportService accepts nil exporter and publisher.
func NewReportService(txs ports.TransactionStore, reports ports.ReportStore, exporter ports.ReportExporter, publisher ports.SyncMessagePublisher, opts ...Option) *ReportService {
	o := applyOptions(opts)
	return &ReportService{
		txs:       txs,
		reports:   reports,
		exporter:  exporter,
		publisher: publisher,
		now:       o.now,
		rnd:       o.rnd,
	}
}

// Generate builds a report of type t from the current transactions and saves
// it. Export failures are logged and do not fail generation.
func (s *ReportService) Generate(ctx context.Context, t core.ReportType) (core.Report, error) {
	if !t.IsValid() {
		return core.Report{}, fmt.Errorf("%w: %q", core.ErrInvalidReportType, t)
	}
	txs, err := s.txs.Load(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("load transactions: %w", err)
	}

	r, err := BuildReport(t, txs, s.now(), s.rnd)
	if err != nil {
		return core.Report{}, fmt.Errorf("build %s report: %w", t, err)
	}
	if err := s.reports.SaveReport(ctx, r); err != nil {
		return core.Report{}, fmt.Errorf("save report: %w", err)
	}
	slog.InfoContext(ctx, "Report generated", "id", r.ID, "report_type", t, "transactions", len(txs))

	if s.exporter != nil {
		if ref, err := s.exporter.ExportReport(ctx, r); err != nil {
			slog.ErrorContext(ctx, "Failed to export report", "id", r.ID, "error", err)
		} else {
			slog.InfoContext(ctx, "Report exported", "id", r.ID, "ref", ref)
		}
	}
	return r, nil
}

// Request queues a report for the worker instead of generating it inline.
func (s *ReportService) Request(ctx context.Context, t core.ReportType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidReportType, t)
	}
	if s.publisher == nil {
		return ErrAsyncUnavailable
	}
	if err := s.publisher.PublishReportRequest(ctx, t); err != nil {
		return fmt.Errorf("request %s report: %w", t, err)
	}
	return nil
}

func (s *ReportService) List(ctx context.Context) ([]core.Report, error) {
	reports, err := s.reports.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) Get(ctx context.Context, id string) (core.Report, error) {
	r, err := s.reports.GetReport(ctx, id)
	if err != nil {
		return core.Report{}, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}
