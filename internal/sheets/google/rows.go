package google

import (
	"fmt"
	"strings"

	"entrepreedge/internal/core"
)

// transactionRow is Date, Type, Category, Description, Amount, ID.
func transactionRow(tx core.Transaction) []any {
	return []any{
		tx.Date.String(),
		string(tx.Type),
		tx.Category,
		tx.Description,
		tx.Amount.String(),
		tx.ID,
	}
}

// reportRow is Generated, Type, Title, Summary, Total, ID.
func reportRow(r core.Report) []any {
	summary, total := summarize(r)
	return []any{
		r.DateGenerated.UTC().Format("2006-01-02 15:04:05"),
		string(r.Type),
		r.Title,
		summary,
		total.String(),
		r.ID,
	}
}

func summarize(r core.Report) (string, core.Money) {
	var total core.Money
	switch r.Type {
	case core.ReportExpenses, core.ReportIncome:
		parts := make([]string, 0, len(r.Data.Categories))
		for _, c := range r.Data.Categories {
			parts = append(parts, fmt.Sprintf("%s: %s", c.Category, c.Amount))
			total = total.Add(c.Amount)
		}
		return strings.Join(parts, "; "), total
	case core.ReportProfitability:
		parts := make([]string, 0, len(r.Data.Monthly))
		for _, m := range r.Data.Monthly {
			parts = append(parts, fmt.Sprintf("%s: %s (%.1f%%)", m.Month, m.Profit, m.ProfitMargin))
			total = total.Add(m.Profit)
		}
		return strings.Join(parts, "; "), total
	case core.ReportProjection:
		parts := make([]string, 0, len(r.Data.Projection))
		for _, p := range r.Data.Projection {
			net := p.ProjectedIncome.Sub(p.ProjectedExpense)
			parts = append(parts, fmt.Sprintf("%s: %s", p.Month, net))
			total = total.Add(net)
		}
		return strings.Join(parts, "; "), total
	}
	return "", total
}

// firstColumn returns the trimmed, non-blank, non-comment values of the
// first column, deduplicated in order.
func firstColumn(values [][]any) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprint(row[0]))
		if v == "" || strings.HasPrefix(v, "#") {
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
