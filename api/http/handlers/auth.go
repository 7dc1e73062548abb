package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/expenses/api/http/presenter"
	"github.com/artem13815/expenses/pkg/auth"
	"github.com/artem13815/expenses/pkg/validation"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type loginRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"Secr3t!pass"`
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} presenter.Envelope{data=loginView}
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	body, err := decodeBody(c,
		validation.Field{Name: "email", Required: true, Raw: true},
		validation.Field{Name: "password", Required: true, Raw: true},
	)
	if err != nil {
		return err
	}

	result, err := h.useCase.Login(c.UserContext(), body.String("email"), body.String("password"))
	if err != nil {
		return err
	}

	return presenter.Success(c, http.StatusOK, loginView{
		User:  toUserView(result.User),
		Token: result.Token,
	}, "Login successful")
}
