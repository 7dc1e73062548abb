package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/artem13815/expenses/pkg/expense"
	"github.com/artem13815/expenses/pkg/logger"
	"github.com/artem13815/expenses/pkg/policy"
	repo "github.com/artem13815/expenses/pkg/repository/sqlite"
	storage "github.com/artem13815/expenses/pkg/storage/sqlite"
	"github.com/artem13815/expenses/pkg/user"
)

type RepositorySuite struct {
	suite.Suite
	ctx      context.Context
	db       *sql.DB
	users    *repo.UserRepository
	expenses *repo.ExpenseRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	db, err := storage.Open(s.ctx, ":memory:", time.Second)
	s.Require().NoError(err)
	s.Require().NoError(storage.Migrate(s.ctx, db, logger.Discard()))
	s.db = db
	s.users = repo.NewUserRepository(db)
	s.expenses = repo.NewExpenseRepository(db)
}

func (s *RepositorySuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *RepositorySuite) newUser(username, email string) user.User {
	u, err := s.users.Create(s.ctx, user.User{
		Username:     username,
		Email:        email,
		FirstName:    "Jane",
		LastName:     "Doe",
		PasswordHash: "hash",
		Role:         policy.RoleUser,
	})
	s.Require().NoError(err)
	return u
}

func (s *RepositorySuite) TestUserCreateAndLookup() {
	created := s.newUser("jane", "Jane@Example.com")
	s.NotEmpty(created.ID)
	s.Equal("jane@example.com", created.Email)

	byEmail, err := s.users.GetByEmail(s.ctx, "JANE@example.com")
	s.Require().NoError(err)
	s.Equal(created.ID, byEmail.ID)

	byName, err := s.users.GetByUsername(s.ctx, "jane")
	s.Require().NoError(err)
	s.Equal("hash", byName.PasswordHash)
	s.Equal(policy.RoleUser, byName.Role)

	_, err = s.users.GetByID(s.ctx, "missing")
	s.ErrorIs(err, user.ErrNotFound)
}

func (s *RepositorySuite) TestUserUniqueConstraints() {
	s.newUser("jane", "jane@example.com")

	_, err := s.users.Create(s.ctx, user.User{Username: "other", Email: "JANE@example.com", Role: policy.RoleUser})
	s.ErrorIs(err, user.ErrEmailTaken)

	_, err = s.users.Create(s.ctx, user.User{Username: "jane", Email: "other@example.com", Role: policy.RoleUser})
	s.ErrorIs(err, user.ErrUsernameTaken)

	other := s.newUser("john", "john@example.com")
	other.Username = "jane"
	_, err = s.users.Update(s.ctx, other)
	s.ErrorIs(err, user.ErrUsernameTaken)
}

func (s *RepositorySuite) TestUserUpdatePasswordDelete() {
	u := s.newUser("jane", "jane@example.com")

	u.FirstName = "Janet"
	u.Role = policy.RoleAdmin
	updated, err := s.users.Update(s.ctx, u)
	s.Require().NoError(err)
	s.Equal("Janet", updated.FirstName)
	s.Equal(policy.RoleAdmin, updated.Role)

	s.Require().NoError(s.users.UpdatePassword(s.ctx, u.ID, "new-hash"))
	got, err := s.users.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("new-hash", got.PasswordHash)

	s.Require().NoError(s.users.Delete(s.ctx, u.ID))
	s.ErrorIs(s.users.Delete(s.ctx, u.ID), user.ErrNotFound)
	s.ErrorIs(s.users.UpdatePassword(s.ctx, u.ID, "x"), user.ErrNotFound)

	list, err := s.users.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *RepositorySuite) TestExpenseLifecycle() {
	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	created, err := s.expenses.Create(s.ctx, expense.Expense{
		UserID:      "u1",
		Category:    "food",
		Amount:      decimal.RequireFromString("42.50"),
		Description: "team lunch",
		Date:        day,
	})
	s.Require().NoError(err)

	got, err := s.expenses.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(got.Amount.Equal(decimal.RequireFromString("42.5")))
	s.True(got.Date.Equal(day))
	s.Equal("team lunch", got.Description)

	got.Category = "travel"
	got.Amount = decimal.RequireFromString("0.10")
	updated, err := s.expenses.Update(s.ctx, got)
	s.Require().NoError(err)
	s.Equal("travel", updated.Category)
	s.Equal("0.1", updated.Amount.String())

	s.Require().NoError(s.expenses.Delete(s.ctx, created.ID))
	_, err = s.expenses.GetByID(s.ctx, created.ID)
	s.ErrorIs(err, expense.ErrNotFound)
	s.ErrorIs(s.expenses.Delete(s.ctx, created.ID), expense.ErrNotFound)

	_, err = s.expenses.Update(s.ctx, got)
	s.ErrorIs(err, expense.ErrNotFound)
}

func (s *RepositorySuite) TestExpenseListsSortedByDateDesc() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, owner := range []string{"u1", "u2", "u1"} {
		_, err := s.expenses.Create(s.ctx, expense.Expense{
			UserID:      owner,
			Category:    "misc",
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Description: "item",
			Date:        base.Add(time.Duration(i) * 24 * time.Hour),
		})
		s.Require().NoError(err)
	}

	mine, err := s.expenses.ListByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal("3", mine[0].Amount.String())
	s.Equal("1", mine[1].Amount.String())

	all, err := s.expenses.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)

	none, err := s.expenses.ListByUser(s.ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}
