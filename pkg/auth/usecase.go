package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/artem13815/expenses/pkg/apperr"
	"github.com/artem13815/expenses/pkg/user"
)

// MsgInvalidCredentials is shared by unknown email and wrong password so
// that the response does not reveal which accounts exist.
const MsgInvalidCredentials = "Invalid email or password"

// AuthUseCase describes authentication behavior.
type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (AuthResult, error)
}

type AuthResult struct {
	User  user.User
	Token string
}

type authService struct {
	repo     UserRepository
	verifier PasswordVerifier
	tokens   TokenGenerator
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, verifier PasswordVerifier, tokens TokenGenerator) AuthUseCase {
	return &authService{repo: repo, verifier: verifier, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return AuthResult{}, apperr.Unauthorized(MsgInvalidCredentials)
		}
		return AuthResult{}, apperr.Internal(err)
	}
	if !s.verifier.Verify(password, u.PasswordHash) {
		return AuthResult{}, apperr.Unauthorized(MsgInvalidCredentials)
	}
	token, err := s.tokens.Generate(ctx, u)
	if err != nil {
		return AuthResult{}, apperr.Internal(err)
	}
	return AuthResult{User: u.Public(), Token: token}, nil
}
