package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a spending record owned by exactly one user.
type Expense struct {
	ID          string
	UserID      string
	Category    string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var ErrNotFound = errors.New("expense not found")

// Repository — порт для работы с расходами.
type Repository interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	GetByID(ctx context.Context, id string) (Expense, error)
	// Update stores every mutable field of e.
	Update(ctx context.Context, e Expense) (Expense, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Expense, error)
	List(ctx context.Context) ([]Expense, error)
}

// Amounts must fit a BSON Decimal128.
const (
	maxAmountText   = 64
	maxAmountDigits = 34
	maxAmountExp    = 34
)

// ParseAmount parses the JSON text of an amount and rejects values outside
// the range every store can hold.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" || len(raw) > maxAmountText {
		return decimal.Decimal{}, fmt.Errorf("amount %q: bad length", raw)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q: %w", raw, err)
	}
	if exp := d.Exponent(); exp > maxAmountExp || exp < -maxAmountExp {
		return decimal.Decimal{}, fmt.Errorf("amount %q: exponent out of range", raw)
	}
	if d.NumDigits() > maxAmountDigits {
		return decimal.Decimal{}, fmt.Errorf("amount %q: too many digits", raw)
	}
	return d, nil
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

// ParseDate accepts RFC 3339 timestamps and plain dates.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", s)
}
