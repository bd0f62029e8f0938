package finance

import "entrepreedge/internal/core"

// Filter narrows a transaction list. Zero values match everything.
type Filter struct {
	Type  core.TransactionType
	Month string // YYYY-MM
}

// Apply returns the matching transactions in their original order.
func (f Filter) Apply(txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Month != "" && tx.Date.MonthKey() != f.Month {
			continue
		}
		out = append(out, tx)
	}
	return out
}
