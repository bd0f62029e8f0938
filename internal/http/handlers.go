package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"entrepreedge/internal/core"
	"entrepreedge/internal/log"
	"entrepreedge/internal/services"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.started).Round(time.Second).String(),
	})
}

// handleReady reports whether the store answers and how the caches are doing.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, httpStatus := "ready", http.StatusOK
	checks := map[string]any{}

	if s.ping == nil {
		checks["store"] = "ok"
	} else if err := s.ping(ctx); err != nil {
		checks["store"] = fmt.Sprintf("failed: %v", err)
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	checks["cache"] = s.summaries.Stats()
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients()}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	cacheStats := s.summaries.Stats()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ErrorResponses)
	metric("http_requests_in_flight", "gauge", "Requests being served", traceMetrics.InFlight)
	metric("http_request_duration_avg_seconds", "gauge", "Mean request duration", traceMetrics.AverageResponseTime.Seconds())
	metric("transactions_created_total", "counter", "Transactions created through the API", s.appMetrics.totalTransactions.Load())
	metric("reports_generated_total", "counter", "Reports generated through the API", s.appMetrics.totalReports.Load())
	metric("report_requests_total", "counter", "Reports queued for the worker", s.appMetrics.reportRequests.Load())
	metric("cache_hits_total", "counter", "Summary cache hits", cacheStats.Hits)
	metric("cache_misses_total", "counter", "Summary cache misses", cacheStats.Misses)
	metric("cache_entries", "gauge", "Summary cache entries", cacheStats.Size)
	metric("rate_limit_rejections_total", "counter", "Requests rejected by the rate limiter", rateLimitMetrics.Rejected)
	metric("rate_limit_clients", "gauge", "Clients tracked by the rate limiter", rateLimitMetrics.ClientCount)
	metric("uptime_seconds", "gauge", "Process uptime in seconds", int64(time.Since(s.appMetrics.started).Seconds()))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	txs, err := s.transactions.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs, "count": len(txs)})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.writeError(w, r, log.OpParse, err)
		return
	}

	in := services.CreateTransactionInput{
		Description: p.Get("description"),
		Amount:      p.Get("amount"),
		Date:        p.Get("date"),
		Type:        p.Get("type"),
		Category:    p.Get("category"),
	}
	if in.Date == "" {
		in.Date = s.now().UTC().Format(core.DateLayout)
	}

	tx, ref, err := s.transactions.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}

	s.invalidate()
	s.appMetrics.totalTransactions.Add(1)
	s.structured.LogTransactionCreated(r.Context(), tx.ID, tx.Type.String(), tx.Category, tx.Amount.Cents, ref)

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions?month="+tx.Date.MonthKey()).
		Body(map[string]any{"transaction": tx, "ref": ref}).
		Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	totals, err := cached(r.Context(), s, "summary", s.transactions.Totals)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	txType, err := requiredType(r.URL.Query())
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	cats, err := cached(r.Context(), s, "categories:"+txType.String(), func(ctx context.Context) ([]core.CategoryAmount, error) {
		return s.transactions.ByCategory(ctx, txType)
	})
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"type": txType, "categories": cats})
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	months, err := cached(r.Context(), s, "months", s.transactions.ByMonth)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": months})
}

// handleProjection is not cached: every call draws fresh inflation factors.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	projection, err := s.transactions.Projection(r.Context())
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projection": projection})
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	txType, err := requiredType(r.URL.Query())
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	names := []string{}
	if s.taxonomy != nil {
		names, err = cached(r.Context(), s, "taxonomy:"+txType.String(), func(ctx context.Context) ([]string, error) {
			return s.taxonomy.Categories(ctx, txType)
		})
		if err != nil {
			s.writeError(w, r, log.OpRead, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"type": txType, "categories": names})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reports.List(r.Context())
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports, "count": len(reports)})
}

// handleCreateReport generates a report inline, or queues it for the worker
// when async=true.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	async, err := parseBoolParam(r.URL.Query(), "async")
	if err != nil {
		s.writeError(w, r, log.OpGenerate, err)
		return
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.writeError(w, r, log.OpParse, err)
		return
	}
	raw := p.Get("type")
	if raw == "" {
		raw = r.URL.Query().Get("type")
	}
	reportType, err := core.ParseReportType(raw)
	if err != nil {
		s.writeError(w, r, log.OpGenerate, fmt.Errorf("%w: type must be one of %s", errBadRequest, reportTypeList))
		return
	}

	if async {
		if err := s.reports.Request(r.Context(), reportType); err != nil {
			s.writeError(w, r, log.OpGenerate, err)
			return
		}
		s.appMetrics.reportRequests.Add(1)
		writeJSON(w, http.StatusAccepted, map[string]any{"status": "queued", "type": reportType})
		return
	}

	report, err := s.reports.Generate(r.Context(), reportType)
	if err != nil {
		s.writeError(w, r, log.OpGenerate, err)
		return
	}
	s.appMetrics.totalReports.Add(1)
	s.structured.LogReportGenerated(r.Context(), report.ID, report.Type.String())

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/reports/"+report.ID).
		Body(report).
		Write(w)
}

var reportTypeList = strings.Join([]string{
	core.ReportExpenses.String(), core.ReportIncome.String(),
	core.ReportProfitability.String(), core.ReportProjection.String(),
}, ", ")

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListSegments(w http.ResponseWriter, r *http.Request) {
	type summary struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	all := s.segments.All()
	out := make([]summary, 0, len(all))
	for _, seg := range all {
		out = append(out, summary{Key: seg.Key, Name: seg.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"segments": out})
}

func (s *Server) handleGetSegment(w http.ResponseWriter, r *http.Request) {
	seg, err := s.segments.Lookup(r.PathValue("key"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, seg)
}
