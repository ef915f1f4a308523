package domain

import "github.com/shopspring/decimal"

// BudgetView is the materialized view of a month: the authoritative ordered
// entry list plus derived totals the dashboard consumes.
type BudgetView struct {
	Month   string                       `json:"month"`
	Entries []*BudgetEntry               `json:"entries"`
	Totals  map[Category]decimal.Decimal `json:"totals"`
	NetFlow decimal.Decimal              `json:"netFlow"`
}
