package user

import (
	"time"

	"github.com/artem13815/expenses/pkg/policy"
)

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         policy.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns a copy of u without the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
