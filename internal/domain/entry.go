package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryIncome          Category = "Ingresos"
	CategoryFixedExpense    Category = "Gastos Fijos"
	CategoryVariableExpense Category = "Gastos Variables"
	CategoryDebt            Category = "Deudas"
	CategorySavings         Category = "Ahorros"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryIncome,
	CategoryFixedExpense,
	CategoryVariableExpense,
	CategoryDebt,
	CategorySavings,
}

// Valid reports whether c is one of the fixed category values.
func (c Category) Valid() bool {
	switch c {
	case CategoryIncome, CategoryFixedExpense, CategoryVariableExpense, CategoryDebt, CategorySavings:
		return true
	}
	return false
}

type EntryStatus string

const (
	StatusPaid    EntryStatus = "Pagado"
	StatusPending EntryStatus = "Pendiente"
	StatusOverdue EntryStatus = "Vencido"
)

// Valid reports whether s is a known entry status.
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusOverdue:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCash      PaymentMethod = "Efectivo"
	MethodDebit     PaymentMethod = "Débito"
	MethodCredit    PaymentMethod = "Crédito"
	MethodTransfer  PaymentMethod = "Transferencia"
	MethodFixedTerm PaymentMethod = "Plazo Fijo"
	MethodInvest    PaymentMethod = "Inversión"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodDebit, MethodCredit, MethodTransfer, MethodFixedTerm, MethodInvest:
		return true
	}
	return false
}

// Synthetic entry id prefixes. Entries carrying these ids are computed during
// materialization and only exist in storage once the user edits, reorders or
// deletes one (tombstone).
const (
	InstallmentIDPrefix = "inst-"
	RollupIDPrefix      = "card-agg-"
)

// InstallmentEntryID returns the deterministic id of the derived entry a
// purchase contributes to a given month. Recomputing a month always yields
// the same id, so persisted overrides merge by exact match.
func InstallmentEntryID(purchaseID, month string) string {
	return InstallmentIDPrefix + purchaseID + "-" + month
}

// RollupEntryID returns the deterministic id of a card rollup bucket for a
// given month. groupKey is the normalized card name plus effective category.
func RollupEntryID(groupKey, month string) string {
	return RollupIDPrefix + groupKey + "-" + month
}

// IsSyntheticID reports whether id belongs to the synthetic id space
// (amortization-derived or card-rollup-derived).
func IsSyntheticID(id string) bool {
	return strings.HasPrefix(id, InstallmentIDPrefix) || strings.HasPrefix(id, RollupIDPrefix)
}

// IsRollupID reports whether id belongs to the card rollup id space.
func IsRollupID(id string) bool {
	return strings.HasPrefix(id, RollupIDPrefix)
}

// BudgetEntry is a single financial movement inside a month. Amounts are
// always non-negative; the category determines sign semantics.
type BudgetEntry struct {
	ID            string          `json:"id"`
	Month         string          `json:"month"` // YYYY-MM
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Category      Category        `json:"category"`
	Tag           string          `json:"tag"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Status        EntryStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`

	CardName      *string `json:"cardName,omitempty"`
	FinancingPlan *string `json:"financingPlan,omitempty"`

	// Installment linkage, set on amortization-derived entries.
	InstallmentRef     *string `json:"installmentRef,omitempty"`
	CurrentInstallment *int    `json:"currentInstallment,omitempty"`
	TotalInstallments  *int    `json:"totalInstallments,omitempty"`

	// Sparse manual ordering key assigned by reordering.
	Order *int `json:"order,omitempty"`

	// SubEntries is only populated on synthetic rollup entries.
	SubEntries []*BudgetEntry `json:"subEntries,omitempty"`

	// Deleted marks a tombstone: a persisted row whose sole purpose is
	// suppressing the synthetic entry with the same id.
	Deleted bool `json:"deleted,omitempty"`

	GoalID       *string `json:"goalId,omitempty"`
	MaturityDate *string `json:"maturityDate,omitempty"`

	// Foreign currency fields. When both the original amount and a rate are
	// present, Amount equals OriginalAmount times the actual rate, falling
	// back to the estimated one.
	OriginalAmount        *decimal.Decimal `json:"originalAmount,omitempty"`
	Currency              *string          `json:"currency,omitempty"`
	ExchangeRateEstimated *decimal.Decimal `json:"exchangeRateEstimated,omitempty"`
	ExchangeRateActual    *decimal.Decimal `json:"exchangeRateActual,omitempty"`
}

// RemainingInstallments returns how many installments are left on the entry,
// or the sentinel 999 when the entry carries no installment metadata. Rollup
// sub-entries sort by this value so soon-to-finish commitments surface first.
func (e *BudgetEntry) RemainingInstallments() int {
	if e.TotalInstallments == nil || *e.TotalInstallments == 0 {
		return 999
	}
	current := 0
	if e.CurrentInstallment != nil {
		current = *e.CurrentInstallment
	}
	return *e.TotalInstallments - current
}

// EntryRepository is the durable store of manual line items, keyed by owner.
type EntryRepository interface {
	Upsert(userID uuid.UUID, entry *BudgetEntry) error
	GetByID(userID uuid.UUID, id string) (*BudgetEntry, error)
	ListByMonth(userID uuid.UUID, month string) ([]*BudgetEntry, error)
	ListByYear(userID uuid.UUID, year string) ([]*BudgetEntry, error)
	ListAll(userID uuid.UUID) ([]*BudgetEntry, error)
	Delete(userID uuid.UUID, id string) error
	RenameCards(userID uuid.UUID, renames map[string]string) (int64, error)
}
