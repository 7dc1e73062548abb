package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artem13815/expenses/pkg/expense"
)

const expenseColumns = `id, user_id, category, amount, description, date, created_at, updated_at`

type ExpenseRepository struct {
	db *sql.DB
}

var _ expense.Repository = (*ExpenseRepository)(nil)

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.Date = e.Date.UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UserID, e.Category, e.Amount.String(), e.Description, formatTime(e.Date), formatTime(now), formatTime(now))
	if err != nil {
		return expense.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	return scanExpense(r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id))
}

func (r *ExpenseRepository) Update(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET user_id = ?, category = ?, amount = ?, description = ?, date = ?, updated_at = ?
		WHERE id = ?
	`, e.UserID, e.Category, e.Amount.String(), e.Description, formatTime(e.Date), formatTime(time.Now().UTC()), e.ID)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if err := affected(res, expense.ErrNotFound); err != nil {
		return expense.Expense{}, err
	}
	return r.GetByID(ctx, e.ID)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return affected(res, expense.ErrNotFound)
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string) ([]expense.Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? ORDER BY date DESC`, userID)
}

func (r *ExpenseRepository) List(ctx context.Context) ([]expense.Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC`)
}

func (r *ExpenseRepository) query(ctx context.Context, q string, args ...any) ([]expense.Expense, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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

func scanExpense(row scanner) (expense.Expense, error) {
	var (
		e                          expense.Expense
		amount                     string
		date, createdAt, updatedAt string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Category, &amount, &e.Description, &date, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.Expense{}, expense.ErrNotFound
		}
		return expense.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	e.Amount = d
	if e.Date, err = parseTime(date); err != nil {
		return expense.Expense{}, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return expense.Expense{}, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return expense.Expense{}, err
	}
	return e, nil
}
