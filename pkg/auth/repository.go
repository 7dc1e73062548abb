package auth

import (
	"context"

	"github.com/artem13815/expenses/pkg/user"
)

// UserRepository abstracts the lookup needed for login.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(plaintext, hash string) bool
}
