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

// EntryHandler handles budget entry HTTP requests
type EntryHandler struct {
	entryService *service.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// EntryRequest represents an entry in request bodies. Amounts travel as
// strings to avoid float precision loss.
type EntryRequest struct {
	ID            string  `json:"id"`
	Month         string  `json:"month"`
	Name          string  `json:"name"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	Tag           string  `json:"tag"`
	Date          string  `json:"date,omitempty"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod"`
	CardName      *string `json:"cardName,omitempty"`
	FinancingPlan *string `json:"financingPlan,omitempty"`

	InstallmentRef     *string `json:"installmentRef,omitempty"`
	CurrentInstallment *int    `json:"currentInstallment,omitempty"`
	TotalInstallments  *int    `json:"totalInstallments,omitempty"`

	Order      *int           `json:"order,omitempty"`
	SubEntries []EntryRequest `json:"subEntries,omitempty"`

	GoalID       *string `json:"goalId,omitempty"`
	MaturityDate *string `json:"maturityDate,omitempty"`

	OriginalAmount        *string `json:"originalAmount,omitempty"`
	Currency              *string `json:"currency,omitempty"`
	ExchangeRateEstimated *string `json:"exchangeRateEstimated,omitempty"`
	ExchangeRateActual    *string `json:"exchangeRateActual,omitempty"`
}

// EntryResponse represents an entry in API responses
type EntryResponse struct {
	ID            string  `json:"id"`
	Month         string  `json:"month"`
	Name          string  `json:"name"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	Tag           string  `json:"tag"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod"`
	CardName      *string `json:"cardName,omitempty"`
	FinancingPlan *string `json:"financingPlan,omitempty"`

	InstallmentRef     *string `json:"installmentRef,omitempty"`
	CurrentInstallment *int    `json:"currentInstallment,omitempty"`
	TotalInstallments  *int    `json:"totalInstallments,omitempty"`

	Order      *int            `json:"order,omitempty"`
	SubEntries []EntryResponse `json:"subEntries,omitempty"`

	// Deleted marks tombstone rows in the raw month/year listings; the
	// materialized view never contains them.
	Deleted bool `json:"deleted,omitempty"`

	GoalID       *string `json:"goalId,omitempty"`
	MaturityDate *string `json:"maturityDate,omitempty"`

	OriginalAmount        *string `json:"originalAmount,omitempty"`
	Currency              *string `json:"currency,omitempty"`
	ExchangeRateEstimated *string `json:"exchangeRateEstimated,omitempty"`
	ExchangeRateActual    *string `json:"exchangeRateActual,omitempty"`
}

// SaveEntry creates or updates a budget entry
func (h *EntryHandler) SaveEntry(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	entry, verr := toDomainEntry(&req)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if err := h.entryService.SaveEntry(userID, entry); err != nil {
		if verr := mapEntryValidation(err); verr != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{*verr})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to save entry")
		return NewInternalError(c, "Failed to save entry")
	}

	log.Info().Str("user_id", userID.String()).Str("entry_id", entry.ID).Str("month", entry.Month).Msg("Entry saved")

	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// GetEntries lists stored entries for a month or a year
func (h *EntryHandler) GetEntries(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month := c.QueryParam("month")
	year := c.QueryParam("year")

	var (
		entries []*domain.BudgetEntry
		err     error
	)
	switch {
	case month != "":
		entries, err = h.entryService.ListEntries(userID, month)
	case year != "":
		entries, err = h.entryService.ListEntriesByYear(userID, year)
	default:
		return NewValidationError(c, "Either month or year is required", nil)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		if errors.Is(err, domain.ErrInvalidYear) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "year", Message: "Must be in YYYY format"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list entries")
		return NewInternalError(c, "Failed to list entries")
	}

	return c.JSON(http.StatusOK, toEntryResponses(entries))
}

// DeleteEntry deletes an entry. Synthetic entries become tombstones so the
// next materialization keeps them suppressed.
func (h *EntryHandler) DeleteEntry(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id := c.Param("id")
	month := c.QueryParam("month")
	if month == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "month", Message: "Month query parameter is required"},
		})
	}

	if err := h.entryService.DeleteEntry(userID, month, id); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return NewNotFoundError(c, "Entry not found")
		}
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("entry_id", id).Msg("Failed to delete entry")
		return NewInternalError(c, "Failed to delete entry")
	}

	log.Info().Str("user_id", userID.String()).Str("entry_id", id).Msg("Entry deleted")

	return c.NoContent(http.StatusNoContent)
}

// Helper functions

func mapEntryValidation(err error) *ValidationError {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return &ValidationError{Field: "name", Message: "Name is required"}
	case errors.Is(err, domain.ErrNameTooLong):
		return &ValidationError{Field: "name", Message: "Name must be 255 characters or less"}
	case errors.Is(err, domain.ErrTagTooLong):
		return &ValidationError{Field: "tag", Message: "Tag must be 255 characters or less"}
	case errors.Is(err, domain.ErrInvalidAmount):
		return &ValidationError{Field: "amount", Message: "Amount must be zero or positive"}
	case errors.Is(err, domain.ErrInvalidCategory):
		return &ValidationError{Field: "category", Message: "Unknown category"}
	case errors.Is(err, domain.ErrInvalidStatus):
		return &ValidationError{Field: "status", Message: "Unknown status"}
	case errors.Is(err, domain.ErrInvalidMethod):
		return &ValidationError{Field: "paymentMethod", Message: "Unknown payment method"}
	case errors.Is(err, domain.ErrInvalidMonth):
		return &ValidationError{Field: "month", Message: "Must be in YYYY-MM format"}
	}
	return nil
}

func toDomainEntry(req *EntryRequest) (*domain.BudgetEntry, *ValidationError) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, &ValidationError{Field: "amount", Message: "Must be a valid decimal number"}
	}

	entry := &domain.BudgetEntry{
		ID:                 req.ID,
		Month:              req.Month,
		Name:               req.Name,
		Amount:             amount,
		Category:           domain.Category(req.Category),
		Tag:                req.Tag,
		Date:               req.Date,
		Status:             domain.EntryStatus(req.Status),
		PaymentMethod:      domain.PaymentMethod(req.PaymentMethod),
		CardName:           req.CardName,
		FinancingPlan:      req.FinancingPlan,
		InstallmentRef:     req.InstallmentRef,
		CurrentInstallment: req.CurrentInstallment,
		TotalInstallments:  req.TotalInstallments,
		Order:              req.Order,
		GoalID:             req.GoalID,
		MaturityDate:       req.MaturityDate,
		Currency:           req.Currency,
	}

	var verr *ValidationError
	if entry.OriginalAmount, verr = parseDecimalPtr(req.OriginalAmount, "originalAmount"); verr != nil {
		return nil, verr
	}
	if entry.ExchangeRateEstimated, verr = parseDecimalPtr(req.ExchangeRateEstimated, "exchangeRateEstimated"); verr != nil {
		return nil, verr
	}
	if entry.ExchangeRateActual, verr = parseDecimalPtr(req.ExchangeRateActual, "exchangeRateActual"); verr != nil {
		return nil, verr
	}

	for _, sub := range req.SubEntries {
		subEntry, verr := toDomainEntry(&sub)
		if verr != nil {
			return nil, verr
		}
		entry.SubEntries = append(entry.SubEntries, subEntry)
	}

	return entry, nil
}

func parseDecimalPtr(s *string, field string) (*decimal.Decimal, *ValidationError) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "Must be a valid decimal number"}
	}
	return &d, nil
}

func toEntryResponse(e *domain.BudgetEntry) EntryResponse {
	resp := EntryResponse{
		ID:                 e.ID,
		Month:              e.Month,
		Name:               e.Name,
		Amount:             e.Amount.StringFixed(2),
		Category:           string(e.Category),
		Tag:                e.Tag,
		Date:               e.Date,
		Status:             string(e.Status),
		PaymentMethod:      string(e.PaymentMethod),
		CardName:           e.CardName,
		FinancingPlan:      e.FinancingPlan,
		InstallmentRef:     e.InstallmentRef,
		CurrentInstallment: e.CurrentInstallment,
		TotalInstallments:  e.TotalInstallments,
		Order:              e.Order,
		Deleted:            e.Deleted,
		GoalID:             e.GoalID,
		MaturityDate:       e.MaturityDate,
		Currency:           e.Currency,
	}
	resp.OriginalAmount = decimalPtrToString(e.OriginalAmount)
	resp.ExchangeRateEstimated = decimalPtrToString(e.ExchangeRateEstimated)
	resp.ExchangeRateActual = decimalPtrToString(e.ExchangeRateActual)
	for _, sub := range e.SubEntries {
		resp.SubEntries = append(resp.SubEntries, toEntryResponse(sub))
	}
	return resp
}

func toEntryResponses(entries []*domain.BudgetEntry) []EntryResponse {
	result := make([]EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = toEntryResponse(e)
	}
	return result
}

func decimalPtrToString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
