package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/mgaray/finanzas/finanzas-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// SettingsService handles owner configuration, including card renames that
// must rewrite persisted rows across the catalog and every month.
type SettingsService struct {
	settingsRepo    domain.SettingsRepository
	entryRepo       domain.EntryRepository
	installmentRepo domain.InstallmentRepository
	eventPublisher  websocket.EventPublisher
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo domain.SettingsRepository, entryRepo domain.EntryRepository, installmentRepo domain.InstallmentRepository) *SettingsService {
	return &SettingsService{
		settingsRepo:    settingsRepo,
		entryRepo:       entryRepo,
		installmentRepo: installmentRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettingsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *SettingsService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// GetSettings returns the owner's configuration, or the defaults when none
// has been saved yet.
func (s *SettingsService) GetSettings(userID uuid.UUID) (*domain.Settings, error) {
	settings, err := s.settingsRepo.Get(userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettings persists the owner's configuration.
func (s *SettingsService) UpdateSettings(userID uuid.UUID, settings *domain.Settings) error {
	if settings.Currency == "" {
		settings.Currency = "ARS"
	}
	if settings.Categories == nil {
		settings.Categories = domain.DefaultSettings().Categories
	}
	for cat := range settings.Categories {
		if !cat.Valid() {
			return domain.ErrInvalidCategory
		}
	}

	if err := s.settingsRepo.Upsert(userID, settings); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.SettingsUpdated(settings))
	return nil
}

// RenameCards rewrites the card name on every installment purchase and every
// manual entry, across all months, whose card exactly matches a key of the
// mapping. The whole mapping is applied in one pass against the stored
// values, so a swap like {A: B, B: A} exchanges the two cards instead of
// collapsing them. Synthetic rollups are untouched: they are recomputed from
// the renamed underlying rows.
func (s *SettingsService) RenameCards(userID uuid.UUID, renames map[string]string) error {
	mapping := make(map[string]string, len(renames))
	for oldName, newName := range renames {
		oldName = strings.TrimSpace(oldName)
		newName = strings.TrimSpace(newName)
		if oldName == "" || newName == "" || oldName == newName {
			continue
		}
		mapping[oldName] = newName
	}
	if len(mapping) == 0 {
		return nil
	}

	installments, err := s.installmentRepo.RenameCards(userID, mapping)
	if err != nil {
		return err
	}
	entries, err := s.entryRepo.RenameCards(userID, mapping)
	if err != nil {
		return err
	}

	log.Info().
		Int("cards", len(mapping)).
		Int64("installments", installments).
		Int64("entries", entries).
		Msg("Renamed cards")

	s.publishEvent(userID, websocket.SettingsUpdated(nil))
	return nil
}

// UsedCardNames returns every distinct card name referenced by the catalog
// or any month's entries.
func (s *SettingsService) UsedCardNames(userID uuid.UUID) ([]string, error) {
	seen := make(map[string]bool)
	names := make([]string, 0)

	installments, err := s.installmentRepo.List(userID)
	if err != nil {
		return nil, err
	}
	for _, p := range installments {
		if p.CardName != nil && *p.CardName != "" && !seen[*p.CardName] {
			seen[*p.CardName] = true
			names = append(names, *p.CardName)
		}
	}

	entries, err := s.entryRepo.ListAll(userID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.CardName != nil && *e.CardName != "" && !seen[*e.CardName] {
			seen[*e.CardName] = true
			names = append(names, *e.CardName)
		}
	}

	return names, nil
}
