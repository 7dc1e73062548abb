package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/artem13815/expenses/pkg/expense"
)

// amount travels as text so NUMERIC keeps its exact value.
const expenseColumns = `id, user_id, category, amount::text, description, date, created_at, updated_at`

// ExpenseRepository хранит расходы пользователей.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

var _ expense.Repository = (*ExpenseRepository)(nil)

func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

func (r *ExpenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	if _, err := uuid.Parse(e.UserID); err != nil {
		return expense.Expense{}, fmt.Errorf("invalid user id %q: %w", e.UserID, err)
	}
	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (id, user_id, category, amount, description, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $7)
		RETURNING `+expenseColumns,
		uuid.New(), e.UserID, e.Category, e.Amount.String(), e.Description, e.Date, now)
	created, err := scanExpense(row)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return created, nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	if _, err := uuid.Parse(id); err != nil {
		return expense.Expense{}, expense.ErrNotFound
	}
	return scanExpense(r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
}

func (r *ExpenseRepository) Update(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	if _, err := uuid.Parse(e.ID); err != nil {
		return expense.Expense{}, expense.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET user_id = $2, category = $3, amount = $4::numeric, description = $5, date = $6, updated_at = $7
		WHERE id = $1
		RETURNING `+expenseColumns,
		e.ID, e.UserID, e.Category, e.Amount.String(), e.Description, e.Date, time.Now().UTC())
	return scanExpense(row)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return expense.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return expense.ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string) ([]expense.Expense, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []expense.Expense{}, nil
	}
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY date DESC`, userID)
}

func (r *ExpenseRepository) List(ctx context.Context) ([]expense.Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC`)
}

func (r *ExpenseRepository) query(ctx context.Context, sql string, args ...any) ([]expense.Expense, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	res := make([]expense.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func scanExpense(row pgx.Row) (expense.Expense, error) {
	var (
		e                          expense.Expense
		amount                     string
		date, createdAt, updatedAt time.Time
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Category, &amount, &e.Description, &date, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return expense.Expense{}, expense.ErrNotFound
		}
		return expense.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	e.Amount = d
	e.Date = date.UTC()
	e.CreatedAt = createdAt.UTC()
	e.UpdatedAt = updatedAt.UTC()
	return e, nil
}
