package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/mgaray/finanzas/finanzas-backend/internal/middleware"
	"github.com/mgaray/finanzas/finanzas-backend/internal/service"
	"github.com/mgaray/finanzas/finanzas-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// BudgetHandler handles materialized budget view HTTP requests
type BudgetHandler struct {
	materializer *service.MaterializerService
	entryService *service.EntryService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(materializer *service.MaterializerService, entryService *service.EntryService) *BudgetHandler {
	return &BudgetHandler{
		materializer: materializer,
		entryService: entryService,
	}
}

// BudgetResponse represents the materialized month in API responses
type BudgetResponse struct {
	Month   string            `json:"month"`
	Entries []EntryResponse   `json:"entries"`
	Totals  map[string]string `json:"totals"`
	NetFlow string            `json:"netFlow"`
}

// GetBudget returns the fully materialized view for a month: stored entries
// merged with amortization-derived entries and card rollups, in display order
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month := c.Param("month")
	if !util.IsValidMonth(month) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "month", Message: "Must be in YYYY-MM format"},
		})
	}

	view, err := h.materializer.BuildView(userID, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("month", month).Msg("Failed to materialize month")
		return NewInternalError(c, "Failed to materialize month")
	}

	totals := make(map[string]string, len(view.Totals))
	for category, total := range view.Totals {
		totals[string(category)] = total.StringFixed(2)
	}

	return c.JSON(http.StatusOK, BudgetResponse{
		Month:   view.Month,
		Entries: toEntryResponses(view.Entries),
		Totals:  totals,
		NetFlow: view.NetFlow.StringFixed(2),
	})
}

// ReorderEntries persists the caller-supplied display order for a month.
// Synthetic entries present in the list are materialized on first reorder.
func (h *BudgetHandler) ReorderEntries(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month := c.Param("month")

	var req []EntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	ordered := make([]*domain.BudgetEntry, 0, len(req))
	for i := range req {
		entry, verr := toDomainEntry(&req[i])
		if verr != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{*verr})
		}
		ordered = append(ordered, entry)
	}

	if err := h.entryService.ReorderEntries(userID, month, ordered); err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("month", month).Msg("Failed to reorder entries")
		return NewInternalError(c, "Failed to reorder entries")
	}

	log.Info().Str("user_id", userID.String()).Str("month", month).Int("count", len(ordered)).Msg("Entries reordered")

	return c.NoContent(http.StatusNoContent)
}
