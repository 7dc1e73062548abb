package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/expenses/api/http/presenter"
	"github.com/artem13815/expenses/pkg/policy"
	"github.com/artem13815/expenses/pkg/security/jwt"
	"github.com/artem13815/expenses/pkg/user"
	"github.com/artem13815/expenses/pkg/validation"
)

const msgUserIDRequired = "User ID is required"

type UserHandler struct {
	useCase user.UseCase
}

func NewUserHandler(useCase user.UseCase) *UserHandler {
	return &UserHandler{useCase: useCase}
}

type createUserRequest struct {
	Email     string `json:"email" example:"jane@example.com"`
	Password  string `json:"password" example:"Secr3t!pass"`
	Username  string `json:"username" example:"jane"`
	FirstName string `json:"firstName" example:"Jane"`
	LastName  string `json:"lastName" example:"Doe"`
	Role      string `json:"role,omitempty" enums:"user,admin"`
}

type updateUserRequest struct {
	ID        string `json:"_id" validate:"required"`
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role,omitempty" enums:"user,admin"`
}

type updatePasswordRequest struct {
	ID              string `json:"_id"`
	NewPassword     string `json:"newPassword"`
	CurrentPassword string `json:"currentPassword,omitempty"`
}

// GetAllUsers lists every user.
// @Summary  List users
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    limit  query int false "page size (max 200)"
// @Param    offset query int false "items to skip"
// @Success  200 {object} presenter.Envelope{data=[]userView}
// @Failure  401 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /users/getAllUsers [get]
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	users, err := h.useCase.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return presenter.Fail(c, http.StatusNotFound, "No users found")
	}
	limit, offset := parseLimitOffset(c)
	return presenter.Success(c, http.StatusOK, toUserViews(paginate(users, limit, offset)), "Users fetched successfully")
}

// CreateUser registers a user. Anonymous callers may only create regular users.
// @Summary  Create user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    input body createUserRequest true "user payload"
// @Success  201 {object} presenter.Envelope{data=userView}
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  401 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /users/createUser [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	body, err := decodeBody(c,
		validation.Field{Name: "email", Required: true},
		validation.Field{Name: "password", Required: true},
		validation.Field{Name: "username", Required: true},
		validation.Field{Name: "firstName", Required: true},
		validation.Field{Name: "lastName", Required: true},
		validation.Field{Name: "role"},
	)
	if err != nil {
		return err
	}

	var actor *policy.Actor
	if a, ok := jwt.ActorFrom(c); ok {
		actor = &a
	}

	created, err := h.useCase.Create(c.UserContext(), actor, user.CreateInput{
		Username:  body.String("username"),
		Email:     body.String("email"),
		FirstName: body.String("firstName"),
		LastName:  body.String("lastName"),
		Password:  body.String("password"),
		Role:      policy.Role(body.String("role")),
	})
	if err != nil {
		return err
	}
	return presenter.Success(c, http.StatusCreated, toUserView(created), "User created successfully")
}

// UpdateUser changes profile fields. Email and password are immutable here.
// @Summary  Update user
// @Tags     users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    input body updateUserRequest true "fields to change"
// @Success  200 {object} presenter.Envelope{data=userView}
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /users/updateUser [post]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	body, err := validation.Decode(c.Body())
	if err != nil {
		return err
	}
	if err := requireID(body, "_id", msgUserIDRequired); err != nil {
		return err
	}
	if err := validation.Check(body,
		validation.Field{Name: "_id", Required: true},
		validation.Field{Name: "username", Required: true},
		validation.Field{Name: "firstName", Required: true},
		validation.Field{Name: "lastName", Required: true},
		validation.Field{Name: "role"},
		validation.Field{Name: "email"},
		validation.Field{Name: "password"},
	); err != nil {
		return err
	}

	patch := user.Patch{
		Username:  optString(body, "username"),
		FirstName: optString(body, "firstName"),
		LastName:  optString(body, "lastName"),
		Email:     optString(body, "email"),
		Password:  optString(body, "password"),
	}
	if body.Has("role") {
		role := policy.Role(body.String("role"))
		patch.Role = &role
	}

	updated, err := h.useCase.Update(c.UserContext(), actor, body.String("_id"), patch)
	if err != nil {
		return err
	}
	return presenter.Success(c, http.StatusOK, toUserView(updated), "User updated successfully")
}

// DeleteUser removes a user permanently.
// @Summary  Delete user
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "user id"
// @Success  200 {object} presenter.Envelope
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /users/deleteUser/{id} [post]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, msgUserIDRequired)
	if err != nil {
		return err
	}
	if err := h.useCase.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return presenter.Success(c, http.StatusOK, nil, "User deleted successfully")
}

// GetUserByID returns one user.
// @Summary  Get user
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "user id"
// @Success  200 {object} presenter.Envelope{data=userView}
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /users/getUserById/{id} [post]
func (h *UserHandler) GetUserByID(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, msgUserIDRequired)
	if err != nil {
		return err
	}
	u, err := h.useCase.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return presenter.Success(c, http.StatusOK, toUserView(u), "User fetched successfully")
}

// UpdateUserPassword replaces a password. Admins may omit currentPassword.
// @Summary  Change password
// @Tags     users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    input body updatePasswordRequest true "password payload"
// @Success  200 {object} presenter.Envelope
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  401 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /users/updateUserPassword [post]
func (h *UserHandler) UpdateUserPassword(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	// presence is checked by the use case, which knows the admin exemption
	body, err := decodeBody(c,
		validation.Field{Name: "_id"},
		validation.Field{Name: "newPassword"},
		validation.Field{Name: "currentPassword"},
	)
	if err != nil {
		return err
	}
	err = h.useCase.ChangePassword(c.UserContext(), actor,
		body.String("_id"), body.String("newPassword"), body.String("currentPassword"))
	if err != nil {
		return err
	}
	return presenter.Success(c, http.StatusOK, nil, "Password updated successfully")
}
