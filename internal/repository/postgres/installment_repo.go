package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
)

// InstallmentRepository implements domain.InstallmentRepository using PostgreSQL
type InstallmentRepository struct {
	pool *pgxpool.Pool
}

// NewInstallmentRepository creates a new InstallmentRepository
func NewInstallmentRepository(pool *pgxpool.Pool) *InstallmentRepository {
	return &InstallmentRepository{pool: pool}
}

// Upsert inserts the purchase or replaces the stored row with the same id
func (r *InstallmentRepository) Upsert(userID uuid.UUID, purchase *domain.InstallmentPurchase) error {
	ctx := context.Background()
	totalAmount, err := decimalToPgNumeric(purchase.TotalAmount)
	if err != nil {
		return fmt.Errorf("invalid total amount: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO installments (
			user_id, id, name, total_amount, installments, start_date, category, tag, card_name
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			total_amount = EXCLUDED.total_amount,
			installments = EXCLUDED.installments,
			start_date = EXCLUDED.start_date,
			category = EXCLUDED.category,
			tag = EXCLUDED.tag,
			card_name = EXCLUDED.card_name,
			updated_at = NOW()`,
		userID, purchase.ID, purchase.Name, totalAmount, purchase.Installments,
		purchase.StartDate, string(purchase.Category), purchase.Tag, purchase.CardName,
	)
	return err
}

// GetByID retrieves a purchase by its id
func (r *InstallmentRepository) GetByID(userID uuid.UUID, id string) (*domain.InstallmentPurchase, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, total_amount, installments, start_date, category, tag, card_name
		FROM installments
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	purchase, err := scanInstallment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrInstallmentNotFound
		}
		return nil, err
	}
	return purchase, nil
}

// List retrieves the full installment catalog for the owner
func (r *InstallmentRepository) List(userID uuid.UUID) ([]*domain.InstallmentPurchase, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, total_amount, installments, start_date, category, tag, card_name
		FROM installments
		WHERE user_id = $1
		ORDER BY start_date, created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.InstallmentPurchase, 0)
	for rows.Next() {
		purchase, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, purchase)
	}
	return result, rows.Err()
}

// Delete removes a purchase from the catalog
func (r *InstallmentRepository) Delete(userID uuid.UUID, id string) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM installments
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstallmentNotFound
	}
	return nil
}

// RenameCards rewrites card names on every purchase in a single statement;
// each row is matched against its pre-rename value. Returns the number of
// rows touched.
func (r *InstallmentRepository) RenameCards(userID uuid.UUID, renames map[string]string) (int64, error) {
	if len(renames) == 0 {
		return 0, nil
	}
	whenClauses, inList, args := renameCaseArgs(userID, renames)
	query := fmt.Sprintf(`
		UPDATE installments
		SET card_name = CASE card_name %s END, updated_at = NOW()
		WHERE user_id = $1 AND card_name IN (%s)`,
		whenClauses, inList,
	)
	tag, err := r.pool.Exec(context.Background(), query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanInstallment(row pgx.Row) (*domain.InstallmentPurchase, error) {
	var (
		purchase    domain.InstallmentPurchase
		totalAmount pgtype.Numeric
		category    string
	)
	err := row.Scan(
		&purchase.ID, &purchase.Name, &totalAmount, &purchase.Installments,
		&purchase.StartDate, &category, &purchase.Tag, &purchase.CardName,
	)
	if err != nil {
		return nil, err
	}
	purchase.TotalAmount = pgNumericToDecimal(totalAmount)
	purchase.Category = domain.Category(category)
	return &purchase, nil
}
