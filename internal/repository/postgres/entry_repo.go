package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const entryColumns = `id, month_year, name, amount, category, tag, entry_date, status, payment_method,
	card_name, financing_plan, installment_ref, current_installment, total_installments,
	order_index, sub_entries, deleted, goal_id, maturity_date,
	original_amount, currency, exchange_rate_estimated, exchange_rate_actual`

// EntryRepository implements domain.EntryRepository using PostgreSQL
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Upsert inserts the entry or replaces the stored row with the same id
func (r *EntryRepository) Upsert(userID uuid.UUID, entry *domain.BudgetEntry) error {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(entry.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	originalAmount, err := decimalPtrToPgNumeric(entry.OriginalAmount)
	if err != nil {
		return fmt.Errorf("invalid original amount: %w", err)
	}
	rateEstimated, err := decimalPtrToPgNumeric(entry.ExchangeRateEstimated)
	if err != nil {
		return fmt.Errorf("invalid estimated rate: %w", err)
	}
	rateActual, err := decimalPtrToPgNumeric(entry.ExchangeRateActual)
	if err != nil {
		return fmt.Errorf("invalid actual rate: %w", err)
	}

	var subEntries []byte
	if len(entry.SubEntries) > 0 {
		subEntries, err = json.Marshal(entry.SubEntries)
		if err != nil {
			return fmt.Errorf("encode sub entries: %w", err)
		}
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO entries (
			user_id, id, month_year, name, amount, category, tag, entry_date, status,
			payment_method, card_name, financing_plan, installment_ref,
			current_installment, total_installments, order_index, sub_entries,
			deleted, goal_id, maturity_date, original_amount, currency,
			exchange_rate_estimated, exchange_rate_actual
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24
		)
		ON CONFLICT (user_id, id) DO UPDATE SET
			month_year = EXCLUDED.month_year,
			name = EXCLUDED.name,
			amount = EXCLUDED.amount,
			category = EXCLUDED.category,
			tag = EXCLUDED.tag,
			entry_date = EXCLUDED.entry_date,
			status = EXCLUDED.status,
			payment_method = EXCLUDED.payment_method,
			card_name = EXCLUDED.card_name,
			financing_plan = EXCLUDED.financing_plan,
			installment_ref = EXCLUDED.installment_ref,
			current_installment = EXCLUDED.current_installment,
			total_installments = EXCLUDED.total_installments,
			order_index = EXCLUDED.order_index,
			sub_entries = EXCLUDED.sub_entries,
			deleted = EXCLUDED.deleted,
			goal_id = EXCLUDED.goal_id,
			maturity_date = EXCLUDED.maturity_date,
			original_amount = EXCLUDED.original_amount,
			currency = EXCLUDED.currency,
			exchange_rate_estimated = EXCLUDED.exchange_rate_estimated,
			exchange_rate_actual = EXCLUDED.exchange_rate_actual,
			updated_at = NOW()`,
		userID, entry.ID, entry.Month, entry.Name, amount, string(entry.Category),
		entry.Tag, entry.Date, string(entry.Status), string(entry.PaymentMethod),
		entry.CardName, entry.FinancingPlan, entry.InstallmentRef,
		entry.CurrentInstallment, entry.TotalInstallments, entry.Order, subEntries,
		entry.Deleted, entry.GoalID, entry.MaturityDate, originalAmount,
		entry.Currency, rateEstimated, rateActual,
	)
	return err
}

// GetByID retrieves a stored entry by its id
func (r *EntryRepository) GetByID(userID uuid.UUID, id string) (*domain.BudgetEntry, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	entry, err := scanEntry(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// ListByMonth retrieves every stored entry for a month, tombstones included
func (r *EntryRepository) ListByMonth(userID uuid.UUID, month string) ([]*domain.BudgetEntry, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE user_id = $1 AND month_year = $2
		ORDER BY created_at`,
		userID, month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByYear retrieves every stored entry whose month falls in the given year
func (r *EntryRepository) ListByYear(userID uuid.UUID, year string) ([]*domain.BudgetEntry, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE user_id = $1 AND month_year LIKE $2
		ORDER BY month_year, created_at`,
		userID, year+"-%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListAll retrieves every stored entry for the owner
func (r *EntryRepository) ListAll(userID uuid.UUID) ([]*domain.BudgetEntry, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE user_id = $1
		ORDER BY month_year, created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Delete removes a stored entry row
func (r *EntryRepository) Delete(userID uuid.UUID, id string) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM entries
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// RenameCards rewrites card names on every stored entry in a single
// statement, so each row is matched against its value from before any rename
// and a swap mapping cannot chain. Returns the number of rows touched.
func (r *EntryRepository) RenameCards(userID uuid.UUID, renames map[string]string) (int64, error) {
	if len(renames) == 0 {
		return 0, nil
	}
	whenClauses, inList, args := renameCaseArgs(userID, renames)
	query := fmt.Sprintf(`
		UPDATE entries
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

// renameCaseArgs builds the WHEN/THEN clauses and IN list for a card rename
// update, with the old names in sorted order for stable statements
func renameCaseArgs(userID uuid.UUID, renames map[string]string) (string, string, []any) {
	olds := make([]string, 0, len(renames))
	for oldName := range renames {
		olds = append(olds, oldName)
	}
	sort.Strings(olds)

	args := []any{userID}
	whens := make([]string, 0, len(olds))
	ins := make([]string, 0, len(olds))
	for _, oldName := range olds {
		args = append(args, oldName)
		oldIdx := len(args)
		args = append(args, renames[oldName])
		whens = append(whens, fmt.Sprintf("WHEN $%d THEN $%d", oldIdx, len(args)))
		ins = append(ins, fmt.Sprintf("$%d", oldIdx))
	}
	return strings.Join(whens, " "), strings.Join(ins, ", "), args
}

// Helper functions

func scanEntries(rows pgx.Rows) ([]*domain.BudgetEntry, error) {
	result := make([]*domain.BudgetEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.BudgetEntry, error) {
	var (
		entry          domain.BudgetEntry
		amount         pgtype.Numeric
		category       string
		status         string
		method         string
		subEntries     []byte
		originalAmount pgtype.Numeric
		rateEstimated  pgtype.Numeric
		rateActual     pgtype.Numeric
	)
	err := row.Scan(
		&entry.ID, &entry.Month, &entry.Name, &amount, &category, &entry.Tag,
		&entry.Date, &status, &method, &entry.CardName, &entry.FinancingPlan,
		&entry.InstallmentRef, &entry.CurrentInstallment, &entry.TotalInstallments,
		&entry.Order, &subEntries, &entry.Deleted, &entry.GoalID,
		&entry.MaturityDate, &originalAmount, &entry.Currency,
		&rateEstimated, &rateActual,
	)
	if err != nil {
		return nil, err
	}
	entry.Amount = pgNumericToDecimal(amount)
	entry.Category = domain.Category(category)
	entry.Status = domain.EntryStatus(status)
	entry.PaymentMethod = domain.PaymentMethod(method)
	entry.OriginalAmount = pgNumericToDecimalPtr(originalAmount)
	entry.ExchangeRateEstimated = pgNumericToDecimalPtr(rateEstimated)
	entry.ExchangeRateActual = pgNumericToDecimalPtr(rateActual)
	if len(subEntries) > 0 {
		if err := json.Unmarshal(subEntries, &entry.SubEntries); err != nil {
			return nil, fmt.Errorf("decode sub entries: %w", err)
		}
	}
	return &entry, nil
}

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func decimalPtrToPgNumeric(d *decimal.Decimal) (pgtype.Numeric, error) {
	if d == nil {
		return pgtype.Numeric{}, nil
	}
	return decimalToPgNumeric(*d)
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func pgNumericToDecimalPtr(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := pgNumericToDecimal(n)
	return &d
}
