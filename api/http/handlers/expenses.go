package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/artem13815/expenses/api/http/presenter"
	"github.com/artem13815/expenses/pkg/apperr"
	"github.com/artem13815/expenses/pkg/expense"
	"github.com/artem13815/expenses/pkg/validation"
)

const msgExpenseIDRequired = "Expense ID is required"

type ExpenseHandler struct {
	useCase expense.UseCase
}

func NewExpenseHandler(useCase expense.UseCase) *ExpenseHandler {
	return &ExpenseHandler{useCase: useCase}
}

type createExpenseRequest struct {
	Amount      float64 `json:"amount" example:"42.5"`
	Description string  `json:"description" example:"lunch"`
	UserID      string  `json:"userId"`
	Category    string  `json:"category" example:"food"`
	Date        string  `json:"date,omitempty" example:"2024-05-01"`
}

type updateExpenseRequest struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount,omitempty"`
	Description string  `json:"description,omitempty"`
	UserID      string  `json:"userId,omitempty"`
	Category    string  `json:"category,omitempty"`
	Date        string  `json:"date,omitempty"`
}

// expenseFields are the writable fields shared by create and update.
func expenseFields(required bool) []validation.Field {
	return []validation.Field{
		{Name: "amount", Type: validation.Number, Required: required},
		{Name: "description", Required: required, FreeText: true},
		{Name: "userId", Required: required},
		{Name: "category", Required: required},
		{Name: "date"},
	}
}

// GetAllExpenses lists expenses visible to the caller.
// @Summary  List expenses
// @Description Admins receive every expense, users their own.
// @Tags     expenses
// @Produce  json
// @Security BearerAuth
// @Param    limit  query int false "page size (max 200)"
// @Param    offset query int false "items to skip"
// @Success  200 {object} presenter.Envelope{data=[]expenseView}
// @Failure  401 {object} presenter.ErrorResponse
// @Router   /expenses/getAllExpenses [get]
func (h *ExpenseHandler) GetAllExpenses(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	list, err := h.useCase.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	limit, offset := parseLimitOffset(c)
	return presenter.Success(c, http.StatusOK, toExpenseViews(paginate(list, limit, offset)), "Expenses fetched successfully")
}

// CreateExpense records an expense.
// @Summary  Create expense
// @Tags     expenses
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    input body createExpenseRequest true "expense payload"
// @Success  201 {object} presenter.Envelope{data=expenseView}
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /expenses/createExpense [post]
func (h *ExpenseHandler) CreateExpense(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	body, err := decodeBody(c, expenseFields(true)...)
	if err != nil {
		return err
	}
	amount, err := parseAmount(body)
	if err != nil {
		return err
	}
	in := expense.CreateInput{
		UserID:      body.String("userId"),
		Category:    body.String("category"),
		Amount:      amount,
		Description: body.String("description"),
	}
	if body.Has("date") {
		if in.Date, err = parseDate(body); err != nil {
			return err
		}
	}

	created, err := h.useCase.Create(c.UserContext(), actor, in)
	if err != nil {
		return err
	}
	return presenter.Success(c, http.StatusCreated, toExpenseView(created), "Expense created successfully")
}

// UpdateExpense changes the given fields of an expense.
// @Summary  Update expense
// @Tags     expenses
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    input body updateExpenseRequest true "fields to change"
// @Success  200 {object} presenter.Envelope{data=expenseView}
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /expenses/updateExpense [post]
func (h *ExpenseHandler) UpdateExpense(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	body, err := validation.Decode(c.Body())
	if err != nil {
		return err
	}
	if err := requireID(body, "id", msgExpenseIDRequired); err != nil {
		return err
	}
	fields := append(expenseFields(false), validation.Field{Name: "id", Required: true})
	if err := validation.Check(body, fields...); err != nil {
		return err
	}

	patch := expense.Patch{
		UserID:      optString(body, "userId"),
		Category:    optString(body, "category"),
		Description: optString(body, "description"),
	}
	if body.Has("amount") {
		amount, err := parseAmount(body)
		if err != nil {
			return err
		}
		patch.Amount = &amount
	}
	if body.Has("date") {
		date, err := parseDate(body)
		if err != nil {
			return err
		}
		patch.Date = &date
	}

	updated, err := h.useCase.Update(c.UserContext(), actor, body.String("id"), patch)
	if err != nil {
		return err
	}
	return presenter.Success(c, http.StatusOK, toExpenseView(updated), "Expense updated successfully")
}

// DeleteExpense removes an expense permanently.
// @Summary  Delete expense
// @Tags     expenses
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "expense id"
// @Success  200 {object} presenter.Envelope
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /expenses/deleteExpense/{id} [post]
func (h *ExpenseHandler) DeleteExpense(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, msgExpenseIDRequired)
	if err != nil {
		return err
	}
	if err := h.useCase.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return presenter.Success(c, http.StatusOK, nil, "Expense deleted successfully")
}

// GetExpenseByID returns one expense.
// @Summary  Get expense
// @Tags     expenses
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "expense id"
// @Success  200 {object} presenter.Envelope{data=expenseView}
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /expenses/getExpenseById/{id} [post]
func (h *ExpenseHandler) GetExpenseByID(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, msgExpenseIDRequired)
	if err != nil {
		return err
	}
	e, err := h.useCase.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return presenter.Success(c, http.StatusOK, toExpenseView(e), "Expense fetched successfully")
}

// GetExpensesByUserID lists the expenses of one user.
// @Summary  List expenses of a user
// @Tags     expenses
// @Produce  json
// @Security BearerAuth
// @Param    userId query string true "owner id"
// @Param    limit  query int false "page size (max 200)"
// @Param    offset query int false "items to skip"
// @Success  200 {object} presenter.Envelope{data=[]expenseView}
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Router   /expenses/getExpensesByUserId [get]
// @Router   /expenses/getExpensesByUserId [post]
func (h *ExpenseHandler) GetExpensesByUserID(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	userID := c.Query("userId")
	if validation.IsUnsafe(userID) || validation.HasWhitespace(userID) {
		return apperr.Validation(validation.MsgUnsafeInput)
	}
	list, err := h.useCase.ListByUser(c.UserContext(), actor, userID)
	if err != nil {
		return err
	}
	limit, offset := parseLimitOffset(c)
	return presenter.Success(c, http.StatusOK, toExpenseViews(paginate(list, limit, offset)), "Expenses fetched successfully")
}

func parseAmount(body validation.Body) (decimal.Decimal, error) {
	raw, ok := body.Number("amount")
	if !ok {
		return decimal.Decimal{}, apperr.Validation("amount must be a number")
	}
	d, err := expense.ParseAmount(raw)
	if err != nil {
		return decimal.Decimal{}, apperr.Validation("amount must be a number")
	}
	return d, nil
}

func parseDate(body validation.Body) (t time.Time, err error) {
	t, err = expense.ParseDate(body.String("date"))
	if err != nil {
		return t, apperr.Validation("date must be a valid date")
	}
	return t, nil
}
