package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/mgaray/finanzas/finanzas-backend/internal/util"
	"github.com/mgaray/finanzas/finanzas-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// InstallmentService handles the installment purchase catalog
type InstallmentService struct {
	installmentRepo domain.InstallmentRepository
	eventPublisher  websocket.EventPublisher
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(installmentRepo domain.InstallmentRepository) *InstallmentService {
	return &InstallmentService{installmentRepo: installmentRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InstallmentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *InstallmentService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// SaveInstallment upserts a purchase into the catalog after validation.
func (s *InstallmentService) SaveInstallment(userID uuid.UUID, purchase *domain.InstallmentPurchase) error {
	name := strings.TrimSpace(purchase.Name)
	if name == "" {
		return domain.ErrNameRequired
	}
	if len(name) > domain.MaxEntryNameLength {
		return domain.ErrNameTooLong
	}
	purchase.Name = name

	if purchase.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if purchase.Installments < 1 {
		return domain.ErrInvalidInstallments
	}
	if !util.IsValidMonth(purchase.StartDate) {
		return domain.ErrInvalidMonth
	}
	if !purchase.Category.Valid() {
		return domain.ErrInvalidCategory
	}

	if err := s.installmentRepo.Upsert(userID, purchase); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.InstallmentSaved(purchase))
	return nil
}

// ListInstallments returns the owner's installment catalog.
func (s *InstallmentService) ListInstallments(userID uuid.UUID) ([]*domain.InstallmentPurchase, error) {
	return s.installmentRepo.List(userID)
}

// DeleteInstallment removes a purchase from the catalog. Derived entries of
// past months disappear with it on the next materialization pass; persisted
// overrides and tombstones are left untouched.
func (s *InstallmentService) DeleteInstallment(userID uuid.UUID, id string) error {
	if err := s.installmentRepo.Delete(userID, id); err != nil {
		return err
	}
	s.publishEvent(userID, websocket.InstallmentDeleted(id))
	return nil
}
