package service

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/mgaray/finanzas/finanzas-backend/internal/util"
	"github.com/shopspring/decimal"
)

// MaterializerService produces the authoritative ordered entry list for a
// month by reconciling persisted manual entries, the installment catalog and
// the card configuration.
type MaterializerService struct {
	entryRepo       domain.EntryRepository
	installmentRepo domain.InstallmentRepository
	settingsRepo    domain.SettingsRepository
	amortization    *AmortizationService
	aggregation     *AggregationService
}

// NewMaterializerService creates a new MaterializerService
func NewMaterializerService(
	entryRepo domain.EntryRepository,
	installmentRepo domain.InstallmentRepository,
	settingsRepo domain.SettingsRepository,
	amortization *AmortizationService,
	aggregation *AggregationService,
) *MaterializerService {
	return &MaterializerService{
		entryRepo:       entryRepo,
		installmentRepo: installmentRepo,
		settingsRepo:    settingsRepo,
		amortization:    amortization,
		aggregation:     aggregation,
	}
}

// Materialize is a pure function from persisted state to the month's view.
//
// Manual rollup rows are never part of the result directly: rollups are
// regenerated every pass and only their persisted order (and tombstones) are
// honored. A persisted row with Deleted set suppresses the synthetic entry
// carrying the same id. Manual rows whose id collides with a derived
// installment id replace the derived entry (a previously materialized
// override).
func (s *MaterializerService) Materialize(month string, manual []*domain.BudgetEntry, catalog []*domain.InstallmentPurchase, creditCards []string) []*domain.BudgetEntry {
	manualIDs := make(map[string]bool, len(manual))
	tombstoned := make(map[string]bool)
	savedOrders := make(map[string]int)

	for _, e := range manual {
		manualIDs[e.ID] = true
		if e.Deleted {
			tombstoned[e.ID] = true
		}
		if domain.IsRollupID(e.ID) && e.Order != nil {
			savedOrders[e.ID] = *e.Order
		}
	}

	// Active manual entries; rollup rows are order/tombstone carriers only.
	active := make([]*domain.BudgetEntry, 0, len(manual))
	for _, e := range manual {
		if e.Deleted || domain.IsRollupID(e.ID) {
			continue
		}
		active = append(active, e)
	}

	other := make([]*domain.BudgetEntry, 0, len(active))
	credit := make([]*domain.BudgetEntry, 0)
	for _, e := range active {
		// Credit income stays visible among the month's income entries and
		// additionally joins its card detail below.
		if e.PaymentMethod != domain.MethodCredit || e.Category == domain.CategoryIncome {
			other = append(other, e)
		}
		if e.PaymentMethod == domain.MethodCredit {
			credit = append(credit, e)
		}
	}

	derived := s.amortization.ResolveMonth(month, catalog, creditCards)
	for _, d := range derived {
		// A manual row with the same id is either a materialized override
		// (already in the credit partition) or a tombstone; either way the
		// derived entry must not be regenerated.
		if manualIDs[d.ID] {
			continue
		}
		credit = append(credit, d)
	}

	rollups := s.aggregation.Aggregate(month, credit, savedOrders, tombstoned)

	result := make([]*domain.BudgetEntry, 0, len(other)+len(rollups))
	result = append(result, other...)
	result = append(result, rollups...)
	sortEntries(result)
	return result
}

// MaterializeMonth loads the owner's persisted state and materializes the
// given month.
func (s *MaterializerService) MaterializeMonth(userID uuid.UUID, month string) ([]*domain.BudgetEntry, error) {
	if !util.IsValidMonth(month) {
		return nil, domain.ErrInvalidMonth
	}

	manual, err := s.entryRepo.ListByMonth(userID, month)
	if err != nil {
		return nil, err
	}
	catalog, err := s.installmentRepo.List(userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.Get(userID)
	if errors.Is(err, domain.ErrNotFound) {
		settings = domain.DefaultSettings()
	} else if err != nil {
		return nil, err
	}

	return s.Materialize(month, manual, catalog, settings.CreditCards), nil
}

// BuildView materializes a month and attaches per-category totals and the
// net flow (income minus all expense categories, savings included).
func (s *MaterializerService) BuildView(userID uuid.UUID, month string) (*domain.BudgetView, error) {
	entries, err := s.MaterializeMonth(userID, month)
	if err != nil {
		return nil, err
	}

	totals := make(map[domain.Category]decimal.Decimal, len(domain.Categories))
	for _, c := range domain.Categories {
		totals[c] = decimal.Zero
	}
	for _, e := range entries {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	netFlow := totals[domain.CategoryIncome].
		Sub(totals[domain.CategoryFixedExpense]).
		Sub(totals[domain.CategoryVariableExpense]).
		Sub(totals[domain.CategoryDebt]).
		Sub(totals[domain.CategorySavings])

	return &domain.BudgetView{
		Month:   month,
		Entries: entries,
		Totals:  totals,
		NetFlow: netFlow,
	}, nil
}

var categoryRank = map[domain.Category]int{
	domain.CategoryIncome:          0,
	domain.CategoryFixedExpense:    1,
	domain.CategoryVariableExpense: 2,
	domain.CategoryDebt:            3,
	domain.CategorySavings:         4,
}

// sortEntries orders the materialized list by category, then within a
// category: entries with an explicit order first (ascending), unordered
// credit/installment/rollup entries next, plain unordered entries last.
// The sort is stable with respect to input order.
func sortEntries(entries []*domain.BudgetEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if categoryRank[a.Category] != categoryRank[b.Category] {
			return categoryRank[a.Category] < categoryRank[b.Category]
		}
		switch {
		case a.Order != nil && b.Order != nil:
			return *a.Order < *b.Order
		case a.Order != nil:
			return true
		case b.Order != nil:
			return false
		}
		return entryIsCredit(a) && !entryIsCredit(b)
	})
}

func entryIsCredit(e *domain.BudgetEntry) bool {
	return e.PaymentMethod == domain.MethodCredit || e.InstallmentRef != nil || domain.IsRollupID(e.ID)
}
