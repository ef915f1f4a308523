package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsGoal is a named saving target with an accumulated balance.
// CurrentAmount is the sum of all non-deleted entries linked to the goal,
// maintained incrementally by the mutation protocol and clamped at zero.
type SavingsGoal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *string         `json:"deadline,omitempty"` // YYYY-MM
	Icon          string          `json:"icon"`
}

// GoalRepository is the durable goal ledger, keyed by owner.
type GoalRepository interface {
	Upsert(userID uuid.UUID, goal *SavingsGoal) error
	GetByID(userID uuid.UUID, id string) (*SavingsGoal, error)
	List(userID uuid.UUID) ([]*SavingsGoal, error)
	Delete(userID uuid.UUID, id string) error
}
