package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/mgaray/finanzas/finanzas-backend/internal/util"
	"github.com/mgaray/finanzas/finanzas-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// EntryService implements the mutation protocol over the month's manual
// entries: save, delete and reorder, with the linked savings-goal balance
// kept consistent incrementally.
type EntryService struct {
	entryRepo      domain.EntryRepository
	goalRepo       domain.GoalRepository
	materializer   *MaterializerService
	eventPublisher websocket.EventPublisher
}

// NewEntryService creates a new EntryService
func NewEntryService(entryRepo domain.EntryRepository, goalRepo domain.GoalRepository, materializer *MaterializerService) *EntryService {
	return &EntryService{
		entryRepo:    entryRepo,
		goalRepo:     goalRepo,
		materializer: materializer,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *EntryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *EntryService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// SaveEntry upserts an entry into its month. When either the previous or the
// new version of the entry links a savings goal, the goal balance is adjusted
// by the difference and persisted alongside, clamped at zero.
func (s *EntryService) SaveEntry(userID uuid.UUID, entry *domain.BudgetEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	old, err := s.entryRepo.GetByID(userID, entry.ID)
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		return err
	}

	goals := newGoalAdjuster(s.goalRepo, userID)
	if old != nil && old.GoalID != nil {
		goals.subtract(*old.GoalID, old.Amount)
	}
	if entry.GoalID != nil {
		goals.add(*entry.GoalID, entry.Amount)
	}

	// Sub-entries only exist on synthetic rollups and are regenerated every
	// materialization pass.
	entry.SubEntries = nil

	if err := s.entryRepo.Upsert(userID, entry); err != nil {
		return err
	}
	if err := goals.persist(); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.EntrySaved(entry))
	s.publishEvent(userID, websocket.BudgetChanged(entry.Month))
	return nil
}

// DeleteEntry removes an entry from its month. Synthetic ids are never
// deleted from storage directly; the currently computed synthetic entry is
// persisted as a tombstone carrying the same id, permanently suppressing it
// for this month. Ordinary ids are deleted outright.
func (s *EntryService) DeleteEntry(userID uuid.UUID, month, id string) error {
	if !util.IsValidMonth(month) {
		return domain.ErrInvalidMonth
	}

	existing, err := s.entryRepo.GetByID(userID, id)
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		return err
	}

	var removed *domain.BudgetEntry

	if domain.IsSyntheticID(id) {
		if existing != nil {
			existing.Deleted = true
			if err := s.entryRepo.Upsert(userID, existing); err != nil {
				return err
			}
			removed = existing
		} else {
			computed, err := s.findComputed(userID, month, id)
			if err != nil {
				return err
			}
			if computed == nil {
				// Ids only ever come from a prior materialization pass; an
				// unknown synthetic id is treated as already gone.
				log.Debug().Str("entry_id", id).Str("month", month).Msg("Synthetic entry not found, nothing to delete")
				return nil
			}
			tombstone := *computed
			tombstone.Month = month
			tombstone.SubEntries = nil
			tombstone.Deleted = true
			if err := s.entryRepo.Upsert(userID, &tombstone); err != nil {
				return err
			}
			removed = computed
		}
	} else {
		if existing == nil {
			return domain.ErrEntryNotFound
		}
		if err := s.entryRepo.Delete(userID, id); err != nil {
			return err
		}
		removed = existing
	}

	if removed.GoalID != nil {
		goals := newGoalAdjuster(s.goalRepo, userID)
		goals.subtract(*removed.GoalID, removed.Amount)
		if err := goals.persist(); err != nil {
			return err
		}
	}

	s.publishEvent(userID, websocket.EntryDeleted(id))
	s.publishEvent(userID, websocket.BudgetChanged(month))
	return nil
}

// ReorderEntries assigns each entry its position index as the persisted
// order. Entries already stored as manual rows keep their stored content and
// only get the new order; entries seen for the first time (synthetic entries
// being reordered) are materialized as real rows so the order survives the
// next materialization pass.
func (s *EntryService) ReorderEntries(userID uuid.UUID, month string, ordered []*domain.BudgetEntry) error {
	if !util.IsValidMonth(month) {
		return domain.ErrInvalidMonth
	}

	for i, e := range ordered {
		order := i

		stored, err := s.entryRepo.GetByID(userID, e.ID)
		if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
			return err
		}

		if stored != nil {
			stored.Order = &order
			if err := s.entryRepo.Upsert(userID, stored); err != nil {
				return err
			}
			continue
		}

		materialized := *e
		materialized.Month = month
		materialized.Order = &order
		materialized.SubEntries = nil
		if err := s.entryRepo.Upsert(userID, &materialized); err != nil {
			return err
		}
	}

	s.publishEvent(userID, websocket.BudgetChanged(month))
	return nil
}

// ListEntries returns the raw persisted entries for a month, tombstones
// included. The materialized view is served separately.
func (s *EntryService) ListEntries(userID uuid.UUID, month string) ([]*domain.BudgetEntry, error) {
	if !util.IsValidMonth(month) {
		return nil, domain.ErrInvalidMonth
	}
	return s.entryRepo.ListByMonth(userID, month)
}

// ListEntriesByYear returns every persisted entry of a calendar year.
func (s *EntryService) ListEntriesByYear(userID uuid.UUID, year string) ([]*domain.BudgetEntry, error) {
	if len(year) != 4 || strings.Trim(year, "0123456789") != "" {
		return nil, domain.ErrInvalidYear
	}
	return s.entryRepo.ListByYear(userID, year)
}

// findComputed materializes the month and locates a synthetic entry by id,
// searching rollup sub-entries as well.
func (s *EntryService) findComputed(userID uuid.UUID, month, id string) (*domain.BudgetEntry, error) {
	entries, err := s.materializer.MaterializeMonth(userID, month)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
		for _, sub := range e.SubEntries {
			if sub.ID == id {
				return sub, nil
			}
		}
	}
	return nil, nil
}

func validateEntry(entry *domain.BudgetEntry) error {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return domain.ErrNameRequired
	}
	if len(name) > domain.MaxEntryNameLength {
		return domain.ErrNameTooLong
	}
	entry.Name = name

	if len(entry.Tag) > domain.MaxTagLength {
		return domain.ErrTagTooLong
	}
	if entry.Amount.LessThan(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if !entry.Category.Valid() {
		return domain.ErrInvalidCategory
	}
	if !entry.Status.Valid() {
		return domain.ErrInvalidStatus
	}
	if !entry.PaymentMethod.Valid() {
		return domain.ErrInvalidMethod
	}
	if !util.IsValidMonth(entry.Month) {
		return domain.ErrInvalidMonth
	}
	if entry.Date == "" {
		entry.Date = util.MonthFirstDay(entry.Month)
	}
	return nil
}

// goalAdjuster accumulates balance deltas per goal so an edit that moves an
// amount within the same goal applies both sides to one loaded copy.
type goalAdjuster struct {
	repo    domain.GoalRepository
	userID  uuid.UUID
	touched map[string]*domain.SavingsGoal
	order   []string
}

func newGoalAdjuster(repo domain.GoalRepository, userID uuid.UUID) *goalAdjuster {
	return &goalAdjuster{
		repo:    repo,
		userID:  userID,
		touched: make(map[string]*domain.SavingsGoal),
	}
}

// get loads a goal once. A goal id that no longer resolves is skipped
// silently: goal deletion can legitimately race with entry edits.
func (a *goalAdjuster) get(id string) *domain.SavingsGoal {
	if g, ok := a.touched[id]; ok {
		return g
	}
	g, err := a.repo.GetByID(a.userID, id)
	if err != nil {
		if !errors.Is(err, domain.ErrGoalNotFound) {
			log.Warn().Err(err).Str("goal_id", id).Msg("Failed to load goal for balance adjustment")
		}
		return nil
	}
	a.touched[id] = g
	a.order = append(a.order, id)
	return g
}

func (a *goalAdjuster) subtract(id string, amount decimal.Decimal) {
	if g := a.get(id); g != nil {
		g.CurrentAmount = decimal.Max(decimal.Zero, g.CurrentAmount.Sub(amount))
	}
}

func (a *goalAdjuster) add(id string, amount decimal.Decimal) {
	if g := a.get(id); g != nil {
		g.CurrentAmount = decimal.Max(decimal.Zero, g.CurrentAmount.Add(amount))
	}
}

func (a *goalAdjuster) persist() error {
	for _, id := range a.order {
		if err := a.repo.Upsert(a.userID, a.touched[id]); err != nil {
			return err
		}
	}
	return nil
}
