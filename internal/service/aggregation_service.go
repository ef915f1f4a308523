package service

import (
	"sort"
	"strings"

	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/mgaray/finanzas/finanzas-backend/internal/util"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCardBucket is the label used when an entry's card cannot be
	// determined.
	DefaultCardBucket = "Otros"

	// rollupTag is the fixed tag carried by every card rollup entry.
	rollupTag = "Tarjeta de Crédito"
)

// AggregationService groups credit-method entries into one synthetic rollup
// per (normalized card name, effective category) pair.
type AggregationService struct{}

// NewAggregationService creates a new AggregationService
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

type cardBucket struct {
	total    decimal.Decimal
	items    []*domain.BudgetEntry
	cardName string
	category domain.Category
}

// Aggregate builds the rollup entries for a month from the given credit
// entries (manual credit entries plus resolver output).
//
// Card names are trimmed and uppercased for grouping so casing differences do
// not split a card; the first-seen casing is kept for display. Income members
// are bucketed under variable expenses so they show up in the card detail,
// but their amounts are excluded from the group total: the money is already
// counted as income among the non-credit entries.
//
// savedOrders carries previously persisted order values for rollup ids so
// drag-reordering survives recomputation; tombstoned ids are suppressed
// entirely.
func (s *AggregationService) Aggregate(month string, entries []*domain.BudgetEntry, savedOrders map[string]int, tombstoned map[string]bool) []*domain.BudgetEntry {
	buckets := make(map[string]*cardBucket)
	keys := make([]string, 0)

	for _, e := range entries {
		card := DefaultCardBucket
		if e.CardName != nil && strings.TrimSpace(*e.CardName) != "" {
			card = *e.CardName
		}

		category := e.Category
		if category == domain.CategoryIncome {
			category = domain.CategoryVariableExpense
		}

		key := strings.ToUpper(strings.TrimSpace(card)) + "-" + string(category)
		b, ok := buckets[key]
		if !ok {
			b = &cardBucket{
				total:    decimal.Zero,
				cardName: card,
				category: category,
			}
			buckets[key] = b
			keys = append(keys, key)
		}

		b.items = append(b.items, e)
		if e.Category != domain.CategoryIncome {
			b.total = b.total.Add(e.Amount)
		}
	}

	// Deterministic output order, independent of map iteration.
	sort.Strings(keys)

	rollups := make([]*domain.BudgetEntry, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]

		id := domain.RollupEntryID(key, month)
		if tombstoned[id] {
			continue
		}

		// Soonest-to-finish commitments first; entries without installment
		// metadata sort last.
		sort.SliceStable(b.items, func(i, j int) bool {
			return b.items[i].RemainingInstallments() < b.items[j].RemainingInstallments()
		})

		categoryLabel := ""
		if b.category == domain.CategoryFixedExpense {
			categoryLabel = " (Fijos)"
		}
		name := "Consumo " + b.cardName + categoryLabel
		if b.cardName == DefaultCardBucket {
			name = "Consumo Tarjeta" + categoryLabel
		}

		card := b.cardName
		rollup := &domain.BudgetEntry{
			ID:            id,
			Month:         month,
			Name:          name,
			Amount:        b.total,
			Category:      b.category,
			Tag:           rollupTag,
			Date:          util.MonthFirstDay(month),
			Status:        domain.StatusPending,
			PaymentMethod: domain.MethodCredit,
			CardName:      &card,
			SubEntries:    b.items,
		}
		if order, ok := savedOrders[id]; ok {
			o := order
			rollup.Order = &o
		}

		rollups = append(rollups, rollup)
	}

	return rollups
}
