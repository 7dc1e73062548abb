package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/artem13815/expenses/pkg/expense"
)

const expensesCollection = "expenses"

type expenseDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	UserID      primitive.ObjectID   `bson:"userId"`
	Category    string               `bson:"category"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Description string               `bson:"description"`
	Date        time.Time            `bson:"date"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func (d expenseDocument) toDomain() (expense.Expense, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return expense.Expense{}, fmt.Errorf("decode amount %q: %w", d.Amount.String(), err)
	}
	return expense.Expense{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Category:    d.Category,
		Amount:      amount,
		Description: d.Description,
		Date:        d.Date.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

// ExpenseRepository implements expense.Repository backed by MongoDB.
type ExpenseRepository struct {
	coll *mongo.Collection
}

var _ expense.Repository = (*ExpenseRepository)(nil)

func NewExpenseRepository(ctx context.Context, db *mongo.Database) (*ExpenseRepository, error) {
	r := &ExpenseRepository{coll: db.Collection(expensesCollection)}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index().SetName("expenses_user_date"),
	})
	if err != nil {
		return nil, fmt.Errorf("create expense indexes: %w", err)
	}
	return r, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	userID, err := primitive.ObjectIDFromHex(e.UserID)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("invalid user id %q: %w", e.UserID, err)
	}
	amount, err := primitive.ParseDecimal128(e.Amount.String())
	if err != nil {
		return expense.Expense{}, fmt.Errorf("encode amount: %w", err)
	}
	now := time.Now().UTC()
	doc := expenseDocument{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Category:    e.Category,
		Amount:      amount,
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return expense.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return doc.toDomain()
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return expense.Expense{}, expense.ErrNotFound
	}
	var doc expenseDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return expense.Expense{}, expense.ErrNotFound
		}
		return expense.Expense{}, fmt.Errorf("find expense: %w", err)
	}
	return doc.toDomain()
}

func (r *ExpenseRepository) Update(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return expense.Expense{}, expense.ErrNotFound
	}
	userID, err := primitive.ObjectIDFromHex(e.UserID)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("invalid user id %q: %w", e.UserID, err)
	}
	amount, err := primitive.ParseDecimal128(e.Amount.String())
	if err != nil {
		return expense.Expense{}, fmt.Errorf("encode amount: %w", err)
	}
	update := bson.M{"$set": bson.M{
		"userId":      userID,
		"category":    e.Category,
		"amount":      amount,
		"description": e.Description,
		"date":        e.Date,
		"updatedAt":   time.Now().UTC(),
	}}
	var doc expenseDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return expense.Expense{}, expense.ErrNotFound
		}
		return expense.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return doc.toDomain()
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return expense.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return expense.ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string) ([]expense.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []expense.Expense{}, nil
	}
	return r.find(ctx, bson.M{"userId": oid})
}

func (r *ExpenseRepository) List(ctx context.Context) ([]expense.Expense, error) {
	return r.find(ctx, bson.M{})
}

func (r *ExpenseRepository) find(ctx context.Context, filter bson.M) ([]expense.Expense, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]expense.Expense, 0)
	for cur.Next(ctx) {
		var doc expenseDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode expense: %w", err)
		}
		e, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}
