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
)

// SettingsHandler handles per-owner settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// SettingsRequest represents settings in request bodies
type SettingsRequest struct {
	Currency    string              `json:"currency"`
	UserName    string              `json:"userName"`
	Categories  map[string][]string `json:"categories"`
	CreditCards []string            `json:"creditCards"`
}

// SettingsResponse represents settings in API responses
type SettingsResponse struct {
	Currency        string              `json:"currency"`
	UserName        string              `json:"userName"`
	Categories      map[string][]string `json:"categories"`
	CreditCards     []string            `json:"creditCards"`
	PredefinedCards []string            `json:"predefinedCards"`
}

// CardRenamesRequest maps old card names to their replacements
type CardRenamesRequest struct {
	Renames map[string]string `json:"renames"`
}

// UsedCardsResponse lists the card names referenced by stored data
type UsedCardsResponse struct {
	Cards []string `json:"cards"`
}

// GetSettings returns the owner's settings, falling back to defaults
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	settings, err := h.settingsService.GetSettings(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get settings")
		return NewInternalError(c, "Failed to get settings")
	}

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings replaces the owner's settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	categories := make(map[domain.Category][]string, len(req.Categories))
	for name, tags := range req.Categories {
		categories[domain.Category(name)] = tags
	}

	settings := &domain.Settings{
		Currency:    req.Currency,
		UserName:    req.UserName,
		Categories:  categories,
		CreditCards: req.CreditCards,
	}

	if err := h.settingsService.UpdateSettings(userID, settings); err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categories", Message: "Unknown category"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update settings")
		return NewInternalError(c, "Failed to update settings")
	}

	log.Info().Str("user_id", userID.String()).Msg("Settings updated")

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// RenameCards applies card renames across settings, installments and entries
func (h *SettingsHandler) RenameCards(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CardRenamesRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(req.Renames) == 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "renames", Message: "At least one rename is required"},
		})
	}

	if err := h.settingsService.RenameCards(userID, req.Renames); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to rename cards")
		return NewInternalError(c, "Failed to rename cards")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetUsedCards returns the card names currently referenced by entries and
// the installment catalog
func (h *SettingsHandler) GetUsedCards(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cards, err := h.settingsService.UsedCardNames(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list used cards")
		return NewInternalError(c, "Failed to list used cards")
	}

	return c.JSON(http.StatusOK, UsedCardsResponse{Cards: cards})
}

func toSettingsResponse(s *domain.Settings) SettingsResponse {
	categories := make(map[string][]string, len(s.Categories))
	for category, tags := range s.Categories {
		categories[string(category)] = tags
	}
	creditCards := s.CreditCards
	if creditCards == nil {
		creditCards = []string{}
	}
	return SettingsResponse{
		Currency:        s.Currency,
		UserName:        s.UserName,
		Categories:      categories,
		CreditCards:     creditCards,
		PredefinedCards: domain.PredefinedCards,
	}
}
