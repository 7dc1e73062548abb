package expense_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/expenses/pkg/apperr"
	"github.com/artem13815/expenses/pkg/expense"
	"github.com/artem13815/expenses/pkg/policy"
	"github.com/artem13815/expenses/pkg/repository/memory"
	"github.com/artem13815/expenses/pkg/user"
)

type fixture struct {
	svc   expense.UseCase
	alice policy.Actor
	bob   policy.Actor
	admin policy.Actor
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	users := memory.NewUserRepository()

	mk := func(name string, role policy.Role) policy.Actor {
		u, err := users.Create(ctx, user.User{Username: name, Email: name + "@example.com", Role: role})
		require.NoError(t, err)
		return policy.Actor{ID: u.ID, Role: role}
	}
	return fixture{
		svc:   expense.NewService(memory.NewExpenseRepository(), users),
		alice: mk("alice", policy.RoleUser),
		bob:   mk("bob", policy.RoleUser),
		admin: mk("root", policy.RoleAdmin),
	}
}

func lunch(owner string) expense.CreateInput {
	return expense.CreateInput{
		UserID:      owner,
		Category:    "food",
		Amount:      decimal.RequireFromString("42.5"),
		Description: "team lunch",
	}
}

func TestCreate(t *testing.T) {
	f := setup(t)
	before := time.Now().UTC()

	e, err := f.svc.Create(context.Background(), f.alice, lunch(f.alice.ID))
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, f.alice.ID, e.UserID)
	assert.Equal(t, "42.5", e.Amount.String())
	assert.False(t, e.Date.Before(before), "date defaults to now")
}

func TestCreate_KeepsGivenDate(t *testing.T) {
	f := setup(t)
	in := lunch(f.alice.ID)
	in.Date = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	e, err := f.svc.Create(context.Background(), f.alice, in)
	require.NoError(t, err)
	assert.True(t, e.Date.Equal(in.Date))
}

func TestCreate_Rules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice, lunch(f.bob.ID))
	assert.True(t, apperr.Is(err, apperr.KindForbidden), "users create only for themselves")

	_, err = f.svc.Create(ctx, f.admin, lunch(f.bob.ID))
	assert.NoError(t, err, "admins create for anyone")

	_, err = f.svc.Create(ctx, f.admin, lunch("ghost"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "User not found", apperr.MessageOf(err))

	missing := lunch(f.alice.ID)
	missing.Category = ""
	_, err = f.svc.Create(ctx, f.alice, missing)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e, err := f.svc.Create(ctx, f.alice, lunch(f.alice.ID))
	require.NoError(t, err)

	amount := decimal.RequireFromString("10.05")
	category := "travel"
	updated, err := f.svc.Update(ctx, f.alice, e.ID, expense.Patch{Amount: &amount, Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "10.05", updated.Amount.String())
	assert.Equal(t, "travel", updated.Category)
	assert.Equal(t, "team lunch", updated.Description)

	_, err = f.svc.Update(ctx, f.bob, e.ID, expense.Patch{Category: &category})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = f.svc.Update(ctx, f.alice, "missing", expense.Patch{Category: &category})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Expense not found", apperr.MessageOf(err))
}

func TestUpdate_ReassignIsAdminOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e, err := f.svc.Create(ctx, f.alice, lunch(f.alice.ID))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.alice, e.ID, expense.Patch{UserID: &f.bob.ID})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	// same owner is not a reassignment
	_, err = f.svc.Update(ctx, f.alice, e.ID, expense.Patch{UserID: &f.alice.ID})
	assert.NoError(t, err)

	moved, err := f.svc.Update(ctx, f.admin, e.ID, expense.Patch{UserID: &f.bob.ID})
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, moved.UserID)

	ghost := "ghost"
	_, err = f.svc.Update(ctx, f.admin, e.ID, expense.Patch{UserID: &ghost})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteAndGet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e, err := f.svc.Create(ctx, f.alice, lunch(f.alice.ID))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.bob, e.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	got, err := f.svc.Get(ctx, f.admin, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	assert.True(t, apperr.Is(f.svc.Delete(ctx, f.bob, e.ID), apperr.KindForbidden))
	require.NoError(t, f.svc.Delete(ctx, f.alice, e.ID))
	assert.True(t, apperr.Is(f.svc.Delete(ctx, f.alice, e.ID), apperr.KindNotFound))

	_, err = f.svc.Get(ctx, f.alice, e.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for _, owner := range []policy.Actor{f.alice, f.alice, f.bob} {
		_, err := f.svc.Create(ctx, owner, lunch(owner.ID))
		require.NoError(t, err)
	}

	mine, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := f.svc.List(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byUser, err := f.svc.ListByUser(ctx, f.admin, f.bob.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	_, err = f.svc.ListByUser(ctx, f.alice, f.bob.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = f.svc.ListByUser(ctx, f.alice, "")
	require.Error(t, err)
	assert.Equal(t, "userId query parameter is required", apperr.MessageOf(err))

	empty, err := f.svc.ListByUser(ctx, f.admin, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-05-01", "2024-05-01T10:00:00", "2024-05-01T10:00:00Z", "2024-05-01T10:00:00.123+02:00"} {
		d, err := expense.ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.UTC, d.Location(), in)
	}
	_, err := expense.ParseDate("yesterday")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]string{"42.5": "42.5", "-3": "-3", "1e3": "1000", "0.0001": "0.0001"} {
		d, err := expense.ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.String(), in)
	}
	for _, in := range []string{
		"",
		"abc",
		"1e100000000",
		"1e-100000000",
		"12345678901234567890123456789012345", // 35 digits
		strings.Repeat("9", 100),
	} {
		_, err := expense.ParseAmount(in)
		assert.Error(t, err, in)
	}
}
