package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/mgaray/finanzas/finanzas-backend/internal/middleware"
	"github.com/mgaray/finanzas/finanzas-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents a savings goal in request bodies
type GoalRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount"`
	Deadline      *string `json:"deadline,omitempty"`
	Icon          string  `json:"icon"`
}

// GoalResponse represents a savings goal in API responses
type GoalResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount"`
	Deadline      *string `json:"deadline,omitempty"`
	Icon          string  `json:"icon"`
}

// SaveGoal creates or updates a savings goal
func (h *GoalHandler) SaveGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	targetAmount, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid targetAmount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}
	currentAmount := decimal.Zero
	if req.CurrentAmount != "" {
		currentAmount, err = decimal.NewFromString(req.CurrentAmount)
		if err != nil {
			return NewValidationError(c, "Invalid currentAmount", []ValidationError{
				{Field: "currentAmount", Message: "Must be a valid decimal number"},
			})
		}
	}

	goal := &domain.SavingsGoal{
		ID:            req.ID,
		Name:          req.Name,
		TargetAmount:  targetAmount,
		CurrentAmount: currentAmount,
		Deadline:      req.Deadline,
		Icon:          req.Icon,
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	if err := h.goalService.SaveGoal(userID, goal); err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "targetAmount", Message: "Target amount must be positive"},
			})
		case errors.Is(err, domain.ErrInvalidMonth):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "deadline", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to save goal")
		return NewInternalError(c, "Failed to save goal")
	}

	log.Info().Str("user_id", userID.String()).Str("goal_id", goal.ID).Str("name", goal.Name).Msg("Goal saved")

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// GetGoals lists the owner's savings goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	goals, err := h.goalService.ListGoals(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list goals")
		return NewInternalError(c, "Failed to list goals")
	}

	result := make([]GoalResponse, len(goals))
	for i, g := range goals {
		result[i] = toGoalResponse(g)
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteGoal removes a savings goal
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id := c.Param("id")
	if err := h.goalService.DeleteGoal(userID, id); err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("goal_id", id).Msg("Failed to delete goal")
		return NewInternalError(c, "Failed to delete goal")
	}

	log.Info().Str("user_id", userID.String()).Str("goal_id", id).Msg("Goal deleted")

	return c.NoContent(http.StatusNoContent)
}

func toGoalResponse(g *domain.SavingsGoal) GoalResponse {
	return GoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.StringFixed(2),
		CurrentAmount: g.CurrentAmount.StringFixed(2),
		Deadline:      g.Deadline,
		Icon:          g.Icon,
	}
}
