package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/expenses/api/http/handlers"
	"github.com/artem13815/expenses/pkg/policy"
	"github.com/artem13815/expenses/pkg/security/jwt"
)

// Handlers groups the endpoint handlers mounted by Register.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Expenses *handlers.ExpenseHandler
	Health   *handlers.HealthHandler
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers, tokens jwt.TokenParser) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", h.Health.Health)
	api.Get("/ready", h.Health.Ready)

	a := api.Group("/auth")
	a.Post("/login", h.Auth.Login)

	anyone := jwt.NewAuthMiddleware(tokens, policy.RoleAdmin, policy.RoleUser)
	adminOnly := jwt.NewAuthMiddleware(tokens, policy.RoleAdmin)

	u := api.Group("/users")
	u.Get("/getAllUsers", adminOnly, h.Users.GetAllUsers)
	u.Post("/createUser", jwt.NewOptionalAuthMiddleware(tokens), h.Users.CreateUser)
	u.Post("/updateUser", anyone, h.Users.UpdateUser)
	u.Post("/deleteUser/:id", adminOnly, h.Users.DeleteUser)
	u.Post("/getUserById/:id", anyone, h.Users.GetUserByID)
	u.Post("/updateUserPassword", anyone, h.Users.UpdateUserPassword)

	e := api.Group("/expenses")
	e.Get("/getAllExpenses", anyone, h.Expenses.GetAllExpenses)
	e.Post("/createExpense", anyone, h.Expenses.CreateExpense)
	e.Post("/updateExpense", anyone, h.Expenses.UpdateExpense)
	e.Post("/deleteExpense/:id", anyone, h.Expenses.DeleteExpense)
	e.Post("/getExpenseById/:id", anyone, h.Expenses.GetExpenseByID)
	e.Get("/getExpensesByUserId", anyone, h.Expenses.GetExpensesByUserID)
	e.Post("/getExpensesByUserId", anyone, h.Expenses.GetExpensesByUserID)
}
