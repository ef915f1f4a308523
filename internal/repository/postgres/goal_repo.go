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

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

// Upsert inserts the goal or replaces the stored row with the same id
func (r *GoalRepository) Upsert(userID uuid.UUID, goal *domain.SavingsGoal) error {
	ctx := context.Background()
	targetAmount, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return fmt.Errorf("invalid target amount: %w", err)
	}
	currentAmount, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return fmt.Errorf("invalid current amount: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO goals (
			user_id, id, name, target_amount, current_amount, deadline, icon
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			target_amount = EXCLUDED.target_amount,
			current_amount = EXCLUDED.current_amount,
			deadline = EXCLUDED.deadline,
			icon = EXCLUDED.icon,
			updated_at = NOW()`,
		userID, goal.ID, goal.Name, targetAmount, currentAmount, goal.Deadline, goal.Icon,
	)
	return err
}

// GetByID retrieves a goal by its id
func (r *GoalRepository) GetByID(userID uuid.UUID, id string) (*domain.SavingsGoal, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, target_amount, current_amount, deadline, icon
		FROM goals
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	goal, err := scanGoal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// List retrieves every goal for the owner
func (r *GoalRepository) List(userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, target_amount, current_amount, deadline, icon
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.SavingsGoal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, goal)
	}
	return result, rows.Err()
}

// Delete removes a goal
func (r *GoalRepository) Delete(userID uuid.UUID, id string) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM goals
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row pgx.Row) (*domain.SavingsGoal, error) {
	var (
		goal          domain.SavingsGoal
		targetAmount  pgtype.Numeric
		currentAmount pgtype.Numeric
	)
	err := row.Scan(
		&goal.ID, &goal.Name, &targetAmount, &currentAmount, &goal.Deadline, &goal.Icon,
	)
	if err != nil {
		return nil, err
	}
	goal.TargetAmount = pgNumericToDecimal(targetAmount)
	goal.CurrentAmount = pgNumericToDecimal(currentAmount)
	return &goal, nil
}
