package handlers

import (
	"encoding/json"
	"time"

	"github.com/artem13815/expenses/pkg/expense"
	"github.com/artem13815/expenses/pkg/user"
)

// userView is the wire form of a user. The password hash is never rendered.
type userView struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type expenseView struct {
	ID          string      `json:"_id"`
	UserID      string      `json:"userId"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount" swaggertype:"number" example:"42.5"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type loginView struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

func toUserView(u user.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserViews(users []user.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	return out
}

func toExpenseView(e expense.Expense) expenseView {
	return expenseView{
		ID:          e.ID,
		UserID:      e.UserID,
		Category:    e.Category,
		Amount:      json.Number(e.Amount.String()),
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toExpenseViews(list []expense.Expense) []expenseView {
	out := make([]expenseView, 0, len(list))
	for _, e := range list {
		out = append(out, toExpenseView(e))
	}
	return out
}
