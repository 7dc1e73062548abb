// Package expense implements expense CRUD scoped to the owning user.
package expense

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artem13815/expenses/pkg/apperr"
	"github.com/artem13815/expenses/pkg/policy"
	"github.com/artem13815/expenses/pkg/user"
)

const (
	msgNotFound     = "Expense not found"
	msgUserNotFound = "User not found"
)

// UserFinder resolves expense owners.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type CreateInput struct {
	UserID      string
	Category    string
	Amount      decimal.Decimal
	Description string
	// Date defaults to the creation time when zero.
	Date time.Time
}

// Patch lists the fields to change; nil means untouched.
type Patch struct {
	UserID      *string
	Category    *string
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// UseCase инкапсулирует приложение для работы с расходами.
type UseCase interface {
	Create(ctx context.Context, actor policy.Actor, in CreateInput) (Expense, error)
	Update(ctx context.Context, actor policy.Actor, id string, patch Patch) (Expense, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	Get(ctx context.Context, actor policy.Actor, id string) (Expense, error)
	ListByUser(ctx context.Context, actor policy.Actor, userID string) ([]Expense, error)
	// List returns every expense for admins and the actor's own otherwise.
	List(ctx context.Context, actor policy.Actor) ([]Expense, error)
}

type service struct {
	repo  Repository
	users UserFinder
	now   func() time.Time
}

func NewService(repo Repository, users UserFinder) UseCase {
	return &service{repo: repo, users: users, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Create(ctx context.Context, actor policy.Actor, in CreateInput) (Expense, error) {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.Category) == "" || strings.TrimSpace(in.Description) == "" {
		return Expense{}, apperr.Validation("amount, description, userId and category are required")
	}
	if !policy.CanAct(actor, policy.CreateExpense, in.UserID) {
		return Expense{}, apperr.Forbidden("You do not have permission to create expenses for this user")
	}
	if err := s.ensureUser(ctx, in.UserID); err != nil {
		return Expense{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	created, err := s.repo.Create(ctx, Expense{
		UserID:      in.UserID,
		Category:    in.Category,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        date,
	})
	if err != nil {
		return Expense{}, translate(err)
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actor policy.Actor, id string, p Patch) (Expense, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Expense{}, translate(err)
	}
	if !policy.CanAct(actor, policy.UpdateExpense, existing.UserID) {
		return Expense{}, apperr.Forbidden("You do not have permission to update this expense")
	}

	updated := existing
	if p.UserID != nil && *p.UserID != existing.UserID {
		if !policy.CanAct(actor, policy.ReassignExpense, existing.UserID) {
			return Expense{}, apperr.Forbidden("Only admins can move an expense to another user")
		}
		if err := s.ensureUser(ctx, *p.UserID); err != nil {
			return Expense{}, err
		}
		updated.UserID = *p.UserID
	}
	if p.Category != nil {
		if strings.TrimSpace(*p.Category) == "" {
			return Expense{}, apperr.Validation("category must not be empty")
		}
		updated.Category = *p.Category
	}
	if p.Description != nil {
		if strings.TrimSpace(*p.Description) == "" {
			return Expense{}, apperr.Validation("description must not be empty")
		}
		updated.Description = *p.Description
	}
	if p.Amount != nil {
		updated.Amount = *p.Amount
	}
	if p.Date != nil {
		updated.Date = *p.Date
	}

	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return Expense{}, translate(err)
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, actor policy.Actor, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return translate(err)
	}
	if !policy.CanAct(actor, policy.DeleteExpense, existing.UserID) {
		return apperr.Forbidden("You do not have permission to delete this expense")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, actor policy.Actor, id string) (Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Expense{}, translate(err)
	}
	if !policy.CanAct(actor, policy.ReadExpense, e.UserID) {
		return Expense{}, apperr.Forbidden("You do not have permission to view this expense")
	}
	return e, nil
}

func (s *service) ListByUser(ctx context.Context, actor policy.Actor, userID string) ([]Expense, error) {
	if userID == "" {
		return nil, apperr.Validation("userId query parameter is required")
	}
	if !policy.CanAct(actor, policy.ListExpenses, userID) {
		return nil, apperr.Forbidden("You do not have permission to view these expenses")
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *service) List(ctx context.Context, actor policy.Actor) ([]Expense, error) {
	var (
		list []Expense
		err  error
	)
	if actor.IsAdmin() {
		list, err = s.repo.List(ctx)
	} else {
		list, err = s.repo.ListByUser(ctx, actor.ID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *service) ensureUser(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.Wrap(apperr.KindNotFound, msgUserNotFound, err)
		}
		return apperr.Internal(err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, msgNotFound, err)
	}
	return apperr.Internal(err)
}
