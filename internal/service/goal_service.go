package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/mgaray/finanzas/finanzas-backend/internal/util"
	"github.com/mgaray/finanzas/finanzas-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goal business logic
type GoalService struct {
	goalRepo       domain.GoalRepository
	eventPublisher websocket.EventPublisher
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *GoalService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *GoalService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// SaveGoal upserts a savings goal. The accumulated balance is clamped at
// zero; deadlines must be YYYY-MM months when present.
func (s *GoalService) SaveGoal(userID uuid.UUID, goal *domain.SavingsGoal) error {
	name := strings.TrimSpace(goal.Name)
	if name == "" {
		return domain.ErrNameRequired
	}
	if len(name) > domain.MaxEntryNameLength {
		return domain.ErrNameTooLong
	}
	goal.Name = name

	if goal.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	goal.CurrentAmount = decimal.Max(decimal.Zero, goal.CurrentAmount)

	if goal.Deadline != nil && !util.IsValidMonth(*goal.Deadline) {
		return domain.ErrInvalidMonth
	}

	if err := s.goalRepo.Upsert(userID, goal); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.GoalSaved(goal))
	return nil
}

// ListGoals returns the owner's savings goals.
func (s *GoalService) ListGoals(userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	return s.goalRepo.List(userID)
}

// DeleteGoal removes a goal. Entries still referencing it keep their goalId;
// the dangling reference is skipped silently during later adjustments.
func (s *GoalService) DeleteGoal(userID uuid.UUID, id string) error {
	if err := s.goalRepo.Delete(userID, id); err != nil {
		return err
	}
	s.publishEvent(userID, websocket.GoalDeleted(id))
	return nil
}
