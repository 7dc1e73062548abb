package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/artem13815/expenses/pkg/apperr"
	"github.com/artem13815/expenses/pkg/policy"
	"github.com/artem13815/expenses/pkg/repository/memory"
	"github.com/artem13815/expenses/pkg/security/password"
	"github.com/artem13815/expenses/pkg/user"
	"github.com/artem13815/expenses/pkg/validation"
)

const strongPassword = "Str0ng!pass"

var admin = policy.Actor{ID: "admin-1", Role: policy.RoleAdmin}

func newService(t *testing.T) (user.UseCase, *memory.UserRepository) {
	t.Helper()
	repo := memory.NewUserRepository()
	return user.NewService(repo, password.NewHasher(bcrypt.MinCost)), repo
}

func input(username, email string) user.CreateInput {
	return user.CreateInput{
		Username:  username,
		Email:     email,
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  strongPassword,
	}
}

func register(t *testing.T, svc user.UseCase, username, email string) (user.User, policy.Actor) {
	t.Helper()
	u, err := svc.Create(context.Background(), nil, input(username, email))
	require.NoError(t, err)
	return u, policy.Actor{ID: u.ID, Role: u.Role}
}

func ptr[T any](v T) *T { return &v }

func TestCreate_DefaultsAndHidesPassword(t *testing.T) {
	svc, repo := newService(t)

	u, err := svc.Create(context.Background(), nil, input("jane", "Jane@Example.COM"))
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, policy.RoleUser, u.Role)
	assert.Empty(t, u.PasswordHash)

	stored, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, strongPassword, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(strongPassword)))
}

func TestCreate_EmailConflictIgnoresCase(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc, "jane", "jane@example.com")

	_, err := svc.Create(context.Background(), nil, input("other", "JANE@example.com"))

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "Email already in use", err.Error())
}

func TestCreate_UsernameConflictFromRepository(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc, "jane", "jane@example.com")

	_, err := svc.Create(context.Background(), nil, input("jane", "other@example.com"))

	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCreate_AdminRequiresAdminActor(t *testing.T) {
	svc, _ := newService(t)
	_, plain := register(t, svc, "jane", "jane@example.com")

	in := input("boss", "boss@example.com")
	in.Role = policy.RoleAdmin

	_, err := svc.Create(context.Background(), nil, in)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Create(context.Background(), &plain, in)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	created, err := svc.Create(context.Background(), &admin, in)
	require.NoError(t, err)
	assert.Equal(t, policy.RoleAdmin, created.Role)
}

func TestCreate_RejectsWeakPasswordAndBadRole(t *testing.T) {
	svc, _ := newService(t)

	weak := input("jane", "jane@example.com")
	weak.Password = "password"
	_, err := svc.Create(context.Background(), nil, weak)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	bad := input("jane", "jane@example.com")
	bad.Role = "root"
	_, err = svc.Create(context.Background(), nil, bad)
	require.Error(t, err)
	assert.Equal(t, "Invalid role specified", err.Error())
}

func TestCreate_RejectsUnsafeInput(t *testing.T) {
	svc, repo := newService(t)

	markup := input("<b>root</b>", "root@example.com")
	_, err := svc.Create(context.Background(), &admin, markup)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, validation.MsgUnsafeInput, apperr.MessageOf(err))

	// allowed by the password rule, refused by the login checks
	amp := input("root", "root@example.com")
	amp.Password = "Adm1n&pass"
	_, err = svc.Create(context.Background(), &admin, amp)
	assert.Equal(t, validation.MsgUnsafeInput, apperr.MessageOf(err))

	spaced := input("root", "root@example.com")
	spaced.LastName = "van Dyke"
	_, err = svc.Create(context.Background(), &admin, spaced)
	assert.Equal(t, validation.MsgUnsafeInput, apperr.MessageOf(err))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdate_Profile(t *testing.T) {
	svc, _ := newService(t)
	u, self := register(t, svc, "jane", "jane@example.com")

	updated, err := svc.Update(context.Background(), self, u.ID, user.Patch{
		Username:  ptr("janed"),
		FirstName: ptr("Janet"),
	})
	require.NoError(t, err)

	assert.Equal(t, "janed", updated.Username)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)
	assert.Empty(t, updated.PasswordHash)
}

func TestUpdate_EmailAndPasswordImmutable(t *testing.T) {
	svc, _ := newService(t)
	u, self := register(t, svc, "jane", "jane@example.com")
	ctx := context.Background()

	_, err := svc.Update(ctx, self, u.ID, user.Patch{Email: ptr("new@example.com")})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Cannot update email or password through this endpoint", err.Error())

	_, err = svc.Update(ctx, self, u.ID, user.Patch{Password: ptr("Other!pass1")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	// resending the current values is not a change
	_, err = svc.Update(ctx, self, u.ID, user.Patch{
		Email:     ptr("JANE@example.com"),
		Password:  ptr(strongPassword),
		FirstName: ptr("Janet"),
	})
	assert.NoError(t, err)
}

func TestUpdate_RoleChanges(t *testing.T) {
	svc, _ := newService(t)
	u, self := register(t, svc, "jane", "jane@example.com")
	ctx := context.Background()

	_, err := svc.Update(ctx, self, u.ID, user.Patch{Role: ptr(policy.RoleAdmin)})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Equal(t, "Only admins can update roles", err.Error())

	// unchanged role is allowed for the owner
	_, err = svc.Update(ctx, self, u.ID, user.Patch{Role: ptr(policy.RoleUser)})
	assert.NoError(t, err)

	promoted, err := svc.Update(ctx, admin, u.ID, user.Patch{Role: ptr(policy.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, policy.RoleAdmin, promoted.Role)
}

func TestUpdate_AccessAndConflicts(t *testing.T) {
	svc, _ := newService(t)
	jane, janeActor := register(t, svc, "jane", "jane@example.com")
	john, _ := register(t, svc, "john", "john@example.com")
	ctx := context.Background()

	_, err := svc.Update(ctx, janeActor, john.ID, user.Patch{FirstName: ptr("X")})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Update(ctx, janeActor, jane.ID, user.Patch{Username: ptr("john")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Update(ctx, admin, "missing", user.Patch{FirstName: ptr("X")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService(t)
	u, self := register(t, svc, "jane", "jane@example.com")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, self, u.ID, "N3w!password", "Wrong!pass1")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Equal(t, "Current password is incorrect", err.Error())

	err = svc.ChangePassword(ctx, self, u.ID, "N3w!password", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	err = svc.ChangePassword(ctx, self, u.ID, "weak", strongPassword)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, svc.ChangePassword(ctx, self, u.ID, "N3w!password", strongPassword))

	// admins skip the current password
	require.NoError(t, svc.ChangePassword(ctx, admin, u.ID, "Adm1n!reset", ""))

	err = svc.ChangePassword(ctx, admin, "missing", "Adm1n!reset", "")
	require.Error(t, err)
	assert.Equal(t, "User not found - Password update failed!", apperr.MessageOf(err))
}

func TestChangePassword_OtherUserForbidden(t *testing.T) {
	svc, _ := newService(t)
	_, jane := register(t, svc, "jane", "jane@example.com")
	john, _ := register(t, svc, "john", "john@example.com")

	err := svc.ChangePassword(context.Background(), jane, john.ID, "N3w!password", strongPassword)

	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestDeleteGetList(t *testing.T) {
	svc, _ := newService(t)
	u, self := register(t, svc, "jane", "jane@example.com")
	ctx := context.Background()

	got, err := svc.Get(ctx, self, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane", got.Username)
	assert.Empty(t, got.PasswordHash)

	_, err = svc.List(ctx, self)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	err = svc.Delete(ctx, self, u.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	list, err := svc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].PasswordHash)

	require.NoError(t, svc.Delete(ctx, admin, u.ID))

	err = svc.Delete(ctx, admin, u.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Get(ctx, admin, u.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
