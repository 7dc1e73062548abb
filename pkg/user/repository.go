package user

import (
	"context"
	"errors"
)

// Common errors used by repository/use cases
var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already in use")
	ErrUsernameTaken = errors.New("username already in use")
)

// Repository abstracts persistence concerns from the domain layer.
// Implementations must enforce unique email and username themselves and
// report violations as ErrEmailTaken / ErrUsernameTaken.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	// Update stores username, names and role of u.
	Update(ctx context.Context, u User) (User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
