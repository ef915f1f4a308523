package service

import (
	"fmt"

	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/mgaray/finanzas/finanzas-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// AmortizationService derives the per-month entries of installment purchases.
type AmortizationService struct{}

// NewAmortizationService creates a new AmortizationService
func NewAmortizationService() *AmortizationService {
	return &AmortizationService{}
}

// ResolveMonth returns one derived credit entry per purchase whose
// amortization window covers the target month. A purchase with start month S
// and N installments contributes iff 0 <= monthsBetween(S, month) < N; the
// contributed amount is TotalAmount / N. Purchases with a non-positive
// installment count are excluded rather than surfaced as errors.
//
// Card targeting: a purchase without a card falls back to the single
// configured card when exactly one exists; otherwise the card is left unset
// and the aggregator buckets the entry under its default label.
func (s *AmortizationService) ResolveMonth(month string, catalog []*domain.InstallmentPurchase, creditCards []string) []*domain.BudgetEntry {
	entries := make([]*domain.BudgetEntry, 0)

	for _, p := range catalog {
		if p.Installments <= 0 {
			log.Warn().
				Str("purchase_id", p.ID).
				Int("installments", p.Installments).
				Msg("Skipping installment purchase with non-positive count")
			continue
		}

		elapsed, err := util.MonthsBetween(p.StartDate, month)
		if err != nil {
			log.Warn().
				Err(err).
				Str("purchase_id", p.ID).
				Msg("Skipping installment purchase with malformed start month")
			continue
		}
		if elapsed < 0 || elapsed >= p.Installments {
			continue
		}

		current := elapsed + 1
		total := p.Installments
		purchaseID := p.ID

		entry := &domain.BudgetEntry{
			ID:                 domain.InstallmentEntryID(p.ID, month),
			Month:              month,
			Name:               fmt.Sprintf("%s (Cuota %d/%d)", p.Name, current, total),
			Amount:             p.MonthlyAmount(),
			Category:           p.Category,
			Tag:                p.Tag,
			Date:               util.MonthFirstDay(month),
			Status:             domain.StatusPending,
			PaymentMethod:      domain.MethodCredit,
			InstallmentRef:     &purchaseID,
			CurrentInstallment: &current,
			TotalInstallments:  &total,
		}

		if p.CardName != nil && *p.CardName != "" {
			card := *p.CardName
			entry.CardName = &card
		} else if len(creditCards) == 1 {
			card := creditCards[0]
			entry.CardName = &card
		}

		entries = append(entries, entry)
	}

	return entries
}
