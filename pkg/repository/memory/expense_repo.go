package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/expenses/pkg/expense"
)

// ExpenseRepository implements expense.Repository.
type ExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]expense.Expense
}

var _ expense.Repository = (*ExpenseRepository)(nil)

func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{expenses: make(map[string]expense.Expense)}
}

func (r *ExpenseRepository) Create(_ context.Context, e expense.Expense) (expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = uuid.NewString()
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	r.expenses[e.ID] = e
	return e, nil
}

func (r *ExpenseRepository) GetByID(_ context.Context, id string) (expense.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.expenses[id]
	if !ok {
		return expense.Expense{}, expense.ErrNotFound
	}
	return e, nil
}

func (r *ExpenseRepository) Update(_ context.Context, e expense.Expense) (expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.expenses[e.ID]
	if !ok {
		return expense.Expense{}, expense.ErrNotFound
	}
	e.CreatedAt = stored.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	r.expenses[e.ID] = e
	return e, nil
}

func (r *ExpenseRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.expenses[id]; !ok {
		return expense.ErrNotFound
	}
	delete(r.expenses, id)
	return nil
}

func (r *ExpenseRepository) ListByUser(_ context.Context, userID string) ([]expense.Expense, error) {
	return r.filter(func(e expense.Expense) bool { return e.UserID == userID }), nil
}

func (r *ExpenseRepository) List(_ context.Context) ([]expense.Expense, error) {
	return r.filter(func(expense.Expense) bool { return true }), nil
}

func (r *ExpenseRepository) filter(keep func(expense.Expense) bool) []expense.Expense {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]expense.Expense, 0)
	for _, e := range r.expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	// stable order
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
