package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentPurchase is a financed purchase amortized over a fixed number of
// months. The per-month amount is TotalAmount / Installments for the whole
// life of the purchase; there is no interest recalculation.
type InstallmentPurchase struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Installments int             `json:"installments"`
	StartDate    string          `json:"startDate"` // YYYY-MM
	Category     Category        `json:"category"`
	Tag          string          `json:"tag"`
	CardName     *string         `json:"cardName,omitempty"`
}

// MonthlyAmount returns the constant per-month amount, or zero when the
// installment count is not positive (invalid purchases contribute nothing).
func (p *InstallmentPurchase) MonthlyAmount() decimal.Decimal {
	if p.Installments <= 0 {
		return decimal.Zero
	}
	return p.TotalAmount.Div(decimal.NewFromInt(int64(p.Installments)))
}

// InstallmentRepository is the durable installment catalog, keyed by owner.
type InstallmentRepository interface {
	Upsert(userID uuid.UUID, purchase *InstallmentPurchase) error
	GetByID(userID uuid.UUID, id string) (*InstallmentPurchase, error)
	List(userID uuid.UUID) ([]*InstallmentPurchase, error)
	Delete(userID uuid.UUID, id string) error
	RenameCards(userID uuid.UUID, renames map[string]string) (int64, error)
}
