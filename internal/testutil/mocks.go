package testutil

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
)

// entryKey scopes stored entries by owner and id
type entryKey struct {
	UserID uuid.UUID
	ID     string
}

// MockEntryRepository is a mock implementation of domain.EntryRepository
type MockEntryRepository struct {
	Entries  map[entryKey]*domain.BudgetEntry
	UpsertFn func(userID uuid.UUID, entry *domain.BudgetEntry) error
	DeleteFn func(userID uuid.UUID, id string) error
}

// NewMockEntryRepository creates a new MockEntryRepository
func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		Entries: make(map[entryKey]*domain.BudgetEntry),
	}
}

// Upsert inserts or replaces an entry
func (m *MockEntryRepository) Upsert(userID uuid.UUID, entry *domain.BudgetEntry) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(userID, entry)
	}
	copied := *entry
	m.Entries[entryKey{userID, entry.ID}] = &copied
	return nil
}

// GetByID retrieves an entry by id
func (m *MockEntryRepository) GetByID(userID uuid.UUID, id string) (*domain.BudgetEntry, error) {
	if entry, ok := m.Entries[entryKey{userID, id}]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, domain.ErrEntryNotFound
}

// ListByMonth retrieves all stored entries for a month, tombstones included
func (m *MockEntryRepository) ListByMonth(userID uuid.UUID, month string) ([]*domain.BudgetEntry, error) {
	result := make([]*domain.BudgetEntry, 0)
	for key, entry := range m.Entries {
		if key.UserID == userID && entry.Month == month {
			copied := *entry
			result = append(result, &copied)
		}
	}
	sortEntriesByID(result)
	return result, nil
}

// ListByYear retrieves all stored entries for a year
func (m *MockEntryRepository) ListByYear(userID uuid.UUID, year string) ([]*domain.BudgetEntry, error) {
	result := make([]*domain.BudgetEntry, 0)
	for key, entry := range m.Entries {
		if key.UserID == userID && strings.HasPrefix(entry.Month, year+"-") {
			copied := *entry
			result = append(result, &copied)
		}
	}
	sortEntriesByID(result)
	return result, nil
}

// ListAll retrieves every stored entry for the owner
func (m *MockEntryRepository) ListAll(userID uuid.UUID) ([]*domain.BudgetEntry, error) {
	result := make([]*domain.BudgetEntry, 0)
	for key, entry := range m.Entries {
		if key.UserID == userID {
			copied := *entry
			result = append(result, &copied)
		}
	}
	sortEntriesByID(result)
	return result, nil
}

// Delete removes a stored entry
func (m *MockEntryRepository) Delete(userID uuid.UUID, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	key := entryKey{userID, id}
	if _, ok := m.Entries[key]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.Entries, key)
	return nil
}

// RenameCards rewrites card names on every stored entry, matching each row
// against its pre-rename value
func (m *MockEntryRepository) RenameCards(userID uuid.UUID, renames map[string]string) (int64, error) {
	var count int64
	for key, entry := range m.Entries {
		if key.UserID != userID || entry.CardName == nil {
			continue
		}
		if newName, ok := renames[*entry.CardName]; ok {
			renamed := newName
			entry.CardName = &renamed
			count++
		}
	}
	return count, nil
}

func sortEntriesByID(entries []*domain.BudgetEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}

// MockInstallmentRepository is a mock implementation of domain.InstallmentRepository
type MockInstallmentRepository struct {
	Purchases map[entryKey]*domain.InstallmentPurchase
	UpsertFn  func(userID uuid.UUID, purchase *domain.InstallmentPurchase) error
}

// NewMockInstallmentRepository creates a new MockInstallmentRepository
func NewMockInstallmentRepository() *MockInstallmentRepository {
	return &MockInstallmentRepository{
		Purchases: make(map[entryKey]*domain.InstallmentPurchase),
	}
}

// Upsert inserts or replaces a purchase
func (m *MockInstallmentRepository) Upsert(userID uuid.UUID, purchase *domain.InstallmentPurchase) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(userID, purchase)
	}
	copied := *purchase
	m.Purchases[entryKey{userID, purchase.ID}] = &copied
	return nil
}

// GetByID retrieves a purchase by id
func (m *MockInstallmentRepository) GetByID(userID uuid.UUID, id string) (*domain.InstallmentPurchase, error) {
	if purchase, ok := m.Purchases[entryKey{userID, id}]; ok {
		copied := *purchase
		return &copied, nil
	}
	return nil, domain.ErrInstallmentNotFound
}

// List retrieves the owner's installment catalog
func (m *MockInstallmentRepository) List(userID uuid.UUID) ([]*domain.InstallmentPurchase, error) {
	result := make([]*domain.InstallmentPurchase, 0)
	for key, purchase := range m.Purchases {
		if key.UserID == userID {
			copied := *purchase
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes a purchase
func (m *MockInstallmentRepository) Delete(userID uuid.UUID, id string) error {
	key := entryKey{userID, id}
	if _, ok := m.Purchases[key]; !ok {
		return domain.ErrInstallmentNotFound
	}
	delete(m.Purchases, key)
	return nil
}

// RenameCards rewrites card names on every purchase, matching each row
// against its pre-rename value
func (m *MockInstallmentRepository) RenameCards(userID uuid.UUID, renames map[string]string) (int64, error) {
	var count int64
	for key, purchase := range m.Purchases {
		if key.UserID != userID || purchase.CardName == nil {
			continue
		}
		if newName, ok := renames[*purchase.CardName]; ok {
			renamed := newName
			purchase.CardName = &renamed
			count++
		}
	}
	return count, nil
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	Goals    map[entryKey]*domain.SavingsGoal
	UpsertFn func(userID uuid.UUID, goal *domain.SavingsGoal) error
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals: make(map[entryKey]*domain.SavingsGoal),
	}
}

// Upsert inserts or replaces a goal
func (m *MockGoalRepository) Upsert(userID uuid.UUID, goal *domain.SavingsGoal) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(userID, goal)
	}
	copied := *goal
	m.Goals[entryKey{userID, goal.ID}] = &copied
	return nil
}

// GetByID retrieves a goal by id
func (m *MockGoalRepository) GetByID(userID uuid.UUID, id string) (*domain.SavingsGoal, error) {
	if goal, ok := m.Goals[entryKey{userID, id}]; ok {
		copied := *goal
		return &copied, nil
	}
	return nil, domain.ErrGoalNotFound
}

// List retrieves the owner's goals
func (m *MockGoalRepository) List(userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	result := make([]*domain.SavingsGoal, 0)
	for key, goal := range m.Goals {
		if key.UserID == userID {
			copied := *goal
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes a goal
func (m *MockGoalRepository) Delete(userID uuid.UUID, id string) error {
	key := entryKey{userID, id}
	if _, ok := m.Goals[key]; !ok {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, key)
	return nil
}

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	Settings map[uuid.UUID]*domain.Settings
	GetFn    func(userID uuid.UUID) (*domain.Settings, error)
}

// NewMockSettingsRepository creates a new MockSettingsRepository
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{
		Settings: make(map[uuid.UUID]*domain.Settings),
	}
}

// Get retrieves the owner's settings
func (m *MockSettingsRepository) Get(userID uuid.UUID) (*domain.Settings, error) {
	if m.GetFn != nil {
		return m.GetFn(userID)
	}
	if settings, ok := m.Settings[userID]; ok {
		copied := *settings
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

// Upsert inserts or replaces the owner's settings
func (m *MockSettingsRepository) Upsert(userID uuid.UUID, settings *domain.Settings) error {
	copied := *settings
	m.Settings[userID] = &copied
	return nil
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID   map[uuid.UUID]*domain.User
	ByHash map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:   make(map[uuid.UUID]*domain.User),
		ByHash: make(map[string]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByTokenHash retrieves a user by API token hash
func (m *MockUserRepository) GetByTokenHash(tokenHash string) (*domain.User, error) {
	if user, ok := m.ByHash[tokenHash]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	if user.TokenHash != "" {
		m.ByHash[user.TokenHash] = user
	}
}
