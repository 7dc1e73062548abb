package jwt

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/expenses/pkg/apperr"
	"github.com/artem13815/expenses/pkg/policy"
)

const (
	localUserID = "userId"
	localRole   = "role"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(tokenStr string) (*Claims, error)
}

// NewAuthMiddleware returns a Fiber middleware that requires a valid Bearer
// JWT and, when roles are given, one of those roles.
// On success sets user id and role into c.Locals.
func NewAuthMiddleware(parser TokenParser, roles ...policy.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return apperr.Unauthorized("No token provided")
		}
		claims, err := parser.Parse(tokenStr)
		if err != nil {
			return apperr.Wrap(apperr.KindUnauthorized, "Invalid or expired token", err)
		}
		if len(roles) > 0 && !slices.Contains(roles, claims.User.Role) {
			return apperr.Forbidden("You do not have permission to perform this action")
		}
		setActor(c, claims.Actor())
		return c.Next()
	}
}

// NewOptionalAuthMiddleware identifies the caller when a token is sent and
// lets anonymous requests through. A token that is sent but invalid is
// still rejected.
func NewOptionalAuthMiddleware(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if strings.TrimSpace(header) == "" {
			return c.Next()
		}
		tokenStr, ok := bearerToken(header)
		if !ok {
			return apperr.Unauthorized("Invalid or expired token")
		}
		claims, err := parser.Parse(tokenStr)
		if err != nil {
			return apperr.Wrap(apperr.KindUnauthorized, "Invalid or expired token", err)
		}
		setActor(c, claims.Actor())
		return c.Next()
	}
}

// ActorFrom returns the actor stored by the auth middlewares.
func ActorFrom(c *fiber.Ctx) (policy.Actor, bool) {
	id, _ := c.Locals(localUserID).(string)
	role, _ := c.Locals(localRole).(policy.Role)
	if id == "" {
		return policy.Actor{}, false
	}
	return policy.Actor{ID: id, Role: role}, true
}

func setActor(c *fiber.Ctx, actor policy.Actor) {
	c.Locals(localUserID, actor.ID)
	c.Locals(localRole, actor.Role)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tokenStr := strings.TrimSpace(parts[1])
	return tokenStr, tokenStr != ""
}
