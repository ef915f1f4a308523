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

// InstallmentHandler handles installment purchase HTTP requests
type InstallmentHandler struct {
	installmentService *service.InstallmentService
}

// NewInstallmentHandler creates a new InstallmentHandler
func NewInstallmentHandler(installmentService *service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installmentService: installmentService}
}

// InstallmentRequest represents an installment purchase in request bodies
type InstallmentRequest struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TotalAmount  string  `json:"totalAmount"`
	Installments int     `json:"installments"`
	StartDate    string  `json:"startDate"`
	Category     string  `json:"category"`
	Tag          string  `json:"tag"`
	CardName     *string `json:"cardName,omitempty"`
}

// InstallmentResponse represents an installment purchase in API responses
type InstallmentResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TotalAmount   string  `json:"totalAmount"`
	Installments  int     `json:"installments"`
	MonthlyAmount string  `json:"monthlyAmount"`
	StartDate     string  `json:"startDate"`
	Category      string  `json:"category"`
	Tag           string  `json:"tag"`
	CardName      *string `json:"cardName,omitempty"`
}

// SaveInstallment creates or updates an installment purchase
func (h *InstallmentHandler) SaveInstallment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req InstallmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid totalAmount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	purchase := &domain.InstallmentPurchase{
		ID:           req.ID,
		Name:         req.Name,
		TotalAmount:  totalAmount,
		Installments: req.Installments,
		StartDate:    req.StartDate,
		Category:     domain.Category(req.Category),
		Tag:          req.Tag,
		CardName:     req.CardName,
	}
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}

	if err := h.installmentService.SaveInstallment(userID, purchase); err != nil {
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
				{Field: "totalAmount", Message: "Total amount must be positive"},
			})
		case errors.Is(err, domain.ErrInvalidInstallments):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "installments", Message: "Installment count must be at least 1"},
			})
		case errors.Is(err, domain.ErrInvalidMonth):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM format"},
			})
		case errors.Is(err, domain.ErrInvalidCategory):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Unknown category"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to save installment")
		return NewInternalError(c, "Failed to save installment")
	}

	log.Info().Str("user_id", userID.String()).Str("installment_id", purchase.ID).Str("name", purchase.Name).Msg("Installment saved")

	return c.JSON(http.StatusOK, toInstallmentResponse(purchase))
}

// GetInstallments lists the owner's installment catalog
func (h *InstallmentHandler) GetInstallments(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	purchases, err := h.installmentService.ListInstallments(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list installments")
		return NewInternalError(c, "Failed to list installments")
	}

	result := make([]InstallmentResponse, len(purchases))
	for i, p := range purchases {
		result[i] = toInstallmentResponse(p)
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteInstallment removes a purchase from the catalog
func (h *InstallmentHandler) DeleteInstallment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id := c.Param("id")
	if err := h.installmentService.DeleteInstallment(userID, id); err != nil {
		if errors.Is(err, domain.ErrInstallmentNotFound) {
			return NewNotFoundError(c, "Installment not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("installment_id", id).Msg("Failed to delete installment")
		return NewInternalError(c, "Failed to delete installment")
	}

	log.Info().Str("user_id", userID.String()).Str("installment_id", id).Msg("Installment deleted")

	return c.NoContent(http.StatusNoContent)
}

func toInstallmentResponse(p *domain.InstallmentPurchase) InstallmentResponse {
	return InstallmentResponse{
		ID:            p.ID,
		Name:          p.Name,
		TotalAmount:   p.TotalAmount.StringFixed(2),
		Installments:  p.Installments,
		MonthlyAmount: p.MonthlyAmount().StringFixed(2),
		StartDate:     p.StartDate,
		Category:      string(p.Category),
		Tag:           p.Tag,
		CardName:      p.CardName,
	}
}
