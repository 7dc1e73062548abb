package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/expenses/pkg/apperr"
	"github.com/artem13815/expenses/pkg/policy"
	"github.com/artem13815/expenses/pkg/security/jwt"
	"github.com/artem13815/expenses/pkg/validation"
)

// decodeBody parses the JSON body and runs the field checks on it.
func decodeBody(c *fiber.Ctx, fields ...validation.Field) (validation.Body, error) {
	body, err := validation.Decode(c.Body())
	if err != nil {
		return nil, err
	}
	if err := validation.Check(body, fields...); err != nil {
		return nil, err
	}
	return body, nil
}

// requireID rejects a body without an id field with msg, before any other check.
func requireID(body validation.Body, name, msg string) error {
	if s, ok := body[name].(string); ok && strings.TrimSpace(s) != "" {
		return nil
	}
	if body.Has(name) {
		if _, isText := body[name].(string); !isText {
			return apperr.Validation(name + " must be a string")
		}
	}
	return apperr.Validation(msg)
}

// pathID reads an identifier route parameter.
func pathID(c *fiber.Ctx, msg string) (string, error) {
	id := c.Params("id")
	if strings.TrimSpace(id) == "" {
		return "", apperr.Validation(msg)
	}
	if validation.IsUnsafe(id) || validation.HasWhitespace(id) {
		return "", apperr.Validation(validation.MsgUnsafeInput)
	}
	return id, nil
}

// mustActor returns the authenticated caller set by the auth middleware.
func mustActor(c *fiber.Ctx) (policy.Actor, error) {
	a, ok := jwt.ActorFrom(c)
	if !ok {
		return policy.Actor{}, apperr.Unauthorized("No token provided")
	}
	return a, nil
}

// optString returns nil when name is absent from body.
func optString(body validation.Body, name string) *string {
	if !body.Has(name) {
		return nil
	}
	s := body.String(name)
	return &s
}
