package presenter

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/expenses/pkg/apperr"
)

// Envelope is the body of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// ErrorResponse documents failed responses in swagger.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Data    any    `json:"data"`
	Message string `json:"message" example:"Expense not found"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Success(c *fiber.Ctx, status int, data any, message string) error {
	return JSON(c, status, Envelope{Success: true, Data: data, Message: message})
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, Envelope{Success: false, Data: nil, Message: message})
}

// Error renders err as a failed envelope. Classified errors keep their
// message; anything else is a 500 with a generic one.
func Error(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return Fail(c, ae.Kind.Status(), ae.Message)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Fail(c, fe.Code, fe.Message)
	}
	return Fail(c, fiber.StatusInternalServerError, "Internal Server Error")
}

// NewErrorHandler is the fiber.Config ErrorHandler: internal errors are
// logged with their cause before rendering.
func NewErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if apperr.KindOf(err) == apperr.KindInternal && !isFiberError(err) {
			log.ErrorContext(c.UserContext(), "request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}
		return Error(c, err)
	}
}

// NotFound answers unmatched routes.
func NotFound(c *fiber.Ctx) error {
	return Fail(c, fiber.StatusNotFound, "Route not found")
}

func isFiberError(err error) bool {
	var fe *fiber.Error
	return errors.As(err, &fe)
}
