// Package user implements the user lifecycle: registration, profile updates,
// password changes, lookup and removal.
package user

import (
	"context"
	"errors"
	"strings"

	"github.com/artem13815/expenses/pkg/apperr"
	"github.com/artem13815/expenses/pkg/policy"
	"github.com/artem13815/expenses/pkg/validation"
)

const (
	msgNotFound          = "User not found"
	msgEmailTaken        = "Email already in use"
	msgUsernameTaken     = "Username already in use"
	msgInvalidRole       = "Invalid role specified"
	msgImmutableFields   = "Cannot update email or password through this endpoint"
	msgPasswordFields    = "User ID, currentPassword, and new password are required"
	msgPasswordNotFound  = "User not found - Password update failed!"
	msgCurrentPassword   = "Current password is incorrect"
	msgAllFieldsRequired = "All fields are required"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// CreateInput is the registration payload.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      policy.Role
}

// Patch lists the fields a caller asked to change; nil means untouched.
// Email and Password are carried only so that attempts to change them can
// be refused.
type Patch struct {
	Username  *string
	FirstName *string
	LastName  *string
	Role      *policy.Role
	Email     *string
	Password  *string
}

// UseCase describes the user lifecycle.
type UseCase interface {
	// Create registers a user. actor is nil for anonymous sign-ups.
	Create(ctx context.Context, actor *policy.Actor, in CreateInput) (User, error)
	Update(ctx context.Context, actor policy.Actor, id string, patch Patch) (User, error)
	ChangePassword(ctx context.Context, actor policy.Actor, id, newPassword, currentPassword string) error
	Delete(ctx context.Context, actor policy.Actor, id string) error
	Get(ctx context.Context, actor policy.Actor, id string) (User, error)
	List(ctx context.Context, actor policy.Actor) ([]User, error)
}

type service struct {
	repo   Repository
	hasher PasswordHasher
}

func NewService(repo Repository, hasher PasswordHasher) UseCase {
	return &service{repo: repo, hasher: hasher}
}

func (s *service) Create(ctx context.Context, actor *policy.Actor, in CreateInput) (User, error) {
	if in.Username == "" || in.Email == "" || in.FirstName == "" || in.LastName == "" || in.Password == "" {
		return User{}, apperr.Validation(msgAllFieldsRequired)
	}
	if !safeTokens(in.Username, in.Email, in.FirstName, in.LastName, in.Password, string(in.Role)) {
		return User{}, apperr.Validation(validation.MsgUnsafeInput)
	}
	if !validation.ValidPassword(in.Password) {
		return User{}, apperr.Validation(validation.PasswordPolicy)
	}
	if in.Role == "" {
		in.Role = policy.RoleUser
	}
	if !in.Role.Valid() {
		return User{}, apperr.Validation(msgInvalidRole)
	}
	if in.Role == policy.RoleAdmin && (actor == nil || !policy.CanAct(*actor, policy.CreateAdmin, "")) {
		return User{}, apperr.Forbidden("Only admins can create another admin user")
	}

	email := normalizeEmail(in.Email)
	// Best-effort check; the repository's unique index is authoritative.
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, apperr.Conflict(msgEmailTaken)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, apperr.Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, apperr.Internal(err)
	}

	created, err := s.repo.Create(ctx, User{
		Username:     in.Username,
		Email:        email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if err != nil {
		return User{}, translate(err, msgNotFound)
	}
	return created.Public(), nil
}

func (s *service) Update(ctx context.Context, actor policy.Actor, id string, p Patch) (User, error) {
	if !policy.CanAct(actor, policy.UpdateUser, id) {
		return User{}, apperr.Forbidden("You do not have permission to update this user")
	}
	for _, v := range []*string{p.Username, p.FirstName, p.LastName} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return User{}, apperr.Validation(msgAllFieldsRequired)
		}
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, translate(err, msgNotFound)
	}

	if p.Username != nil {
		username := strings.TrimSpace(*p.Username)
		if username != strings.TrimSpace(existing.Username) {
			other, err := s.repo.GetByUsername(ctx, username)
			switch {
			case err == nil && other.ID != existing.ID:
				return User{}, apperr.Conflict(msgUsernameTaken)
			case err != nil && !errors.Is(err, ErrNotFound):
				return User{}, apperr.Internal(err)
			}
		}
	}

	// Sending the current email or password back is not a change.
	emailChanged := p.Email != nil && *p.Email != "" && normalizeEmail(*p.Email) != existing.Email
	passwordChanged := p.Password != nil && *p.Password != "" && !s.hasher.Verify(*p.Password, existing.PasswordHash)
	if emailChanged || passwordChanged {
		return User{}, apperr.Validation(msgImmutableFields)
	}

	if p.Role != nil && *p.Role != existing.Role {
		if !policy.CanAct(actor, policy.AssignRole, id) {
			return User{}, apperr.Forbidden("Only admins can update roles")
		}
		if !p.Role.Valid() {
			return User{}, apperr.Validation(msgInvalidRole)
		}
	}

	updated := existing
	if p.Username != nil {
		updated.Username = strings.TrimSpace(*p.Username)
	}
	if p.FirstName != nil {
		updated.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		updated.LastName = *p.LastName
	}
	if p.Role != nil && actor.IsAdmin() {
		updated.Role = *p.Role
	}

	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return User{}, translate(err, msgNotFound)
	}
	return saved.Public(), nil
}

func (s *service) ChangePassword(ctx context.Context, actor policy.Actor, id, newPassword, currentPassword string) error {
	if id == "" || newPassword == "" || (!actor.IsAdmin() && currentPassword == "") {
		return apperr.Validation(msgPasswordFields)
	}
	if !policy.CanAct(actor, policy.ChangePassword, id) {
		return apperr.Forbidden("You do not have permission to update this user's password")
	}
	if !validation.ValidPassword(newPassword) {
		return apperr.Validation(validation.PasswordPolicy)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return translate(err, msgPasswordNotFound)
	}
	if !actor.IsAdmin() && !s.hasher.Verify(currentPassword, existing.PasswordHash) {
		return apperr.Unauthorized(msgCurrentPassword)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return translate(err, msgPasswordNotFound)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if !policy.CanAct(actor, policy.DeleteUser, id) {
		return apperr.Forbidden("You do not have permission to delete this user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "User not found - Deletion failed!")
	}
	return nil
}

func (s *service) Get(ctx context.Context, actor policy.Actor, id string) (User, error) {
	if !policy.CanAct(actor, policy.ReadUser, id) {
		return User{}, apperr.Forbidden("You do not have permission to view this user")
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, translate(err, msgNotFound)
	}
	return u.Public(), nil
}

func (s *service) List(ctx context.Context, actor policy.Actor) ([]User, error) {
	if !policy.CanAct(actor, policy.ListUsers, "") {
		return nil, apperr.Forbidden("You do not have permission to perform this action")
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// safeTokens reports whether every value would pass the login and profile
// checks: no HTML-sensitive characters and no whitespace.
func safeTokens(values ...string) bool {
	for _, v := range values {
		if validation.IsUnsafe(v) || validation.HasWhitespace(v) {
			return false
		}
	}
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// translate maps repository errors onto classified errors.
func translate(err error, notFound string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, notFound, err)
	case errors.Is(err, ErrEmailTaken):
		return apperr.Wrap(apperr.KindConflict, msgEmailTaken, err)
	case errors.Is(err, ErrUsernameTaken):
		return apperr.Wrap(apperr.KindConflict, msgUsernameTaken, err)
	default:
		return apperr.Internal(err)
	}
}
