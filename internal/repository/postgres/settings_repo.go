package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL.
// Each owner has at most one row; the tag lists are stored as JSONB.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get retrieves the owner's settings
func (r *SettingsRepository) Get(userID uuid.UUID) (*domain.Settings, error) {
	ctx := context.Background()
	var (
		settings    domain.Settings
		categories  []byte
		creditCards []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT currency, user_name, categories, credit_cards
		FROM settings
		WHERE user_id = $1`,
		userID,
	).Scan(&settings.Currency, &settings.UserName, &categories, &creditCards)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(categories, &settings.Categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if err := json.Unmarshal(creditCards, &settings.CreditCards); err != nil {
		return nil, fmt.Errorf("decode credit cards: %w", err)
	}
	return &settings, nil
}

// Upsert inserts or replaces the owner's settings row
func (r *SettingsRepository) Upsert(userID uuid.UUID, settings *domain.Settings) error {
	ctx := context.Background()
	categories, err := json.Marshal(settings.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	creditCards, err := json.Marshal(settings.CreditCards)
	if err != nil {
		return fmt.Errorf("encode credit cards: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO settings (user_id, currency, user_name, categories, credit_cards)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			currency = EXCLUDED.currency,
			user_name = EXCLUDED.user_name,
			categories = EXCLUDED.categories,
			credit_cards = EXCLUDED.credit_cards,
			updated_at = NOW()`,
		userID, settings.Currency, settings.UserName, categories, creditCards,
	)
	return err
}
