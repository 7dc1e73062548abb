// Package repository opens the persistence provider selected by DB_TYPE.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artem13815/expenses/pkg/config"
	"github.com/artem13815/expenses/pkg/expense"
	"github.com/artem13815/expenses/pkg/health"
	"github.com/artem13815/expenses/pkg/health/checkers"
	"github.com/artem13815/expenses/pkg/repository/memory"
	mongorepo "github.com/artem13815/expenses/pkg/repository/mongodb"
	pgrepo "github.com/artem13815/expenses/pkg/repository/postgres"
	sqliterepo "github.com/artem13815/expenses/pkg/repository/sqlite"
	"github.com/artem13815/expenses/pkg/storage/mongodb"
	"github.com/artem13815/expenses/pkg/storage/postgres"
	"github.com/artem13815/expenses/pkg/storage/sqlite"
	"github.com/artem13815/expenses/pkg/user"
)

// Set is an opened provider. Close releases its connections.
type Set struct {
	Users    user.Repository
	Expenses expense.Repository
	Checkers []health.Checker

	closers []func(context.Context) error
}

func (s *Set) Close(ctx context.Context) error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open connects to cfg.DBType, applies schema (indexes or migrations) and
// builds the repositories. Migration progress goes to log.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*Set, error) {
	switch cfg.DBType {
	case config.DBMongo:
		return openMongo(ctx, cfg)
	case config.DBPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DBSQLite:
		return openSQLite(ctx, cfg, log)
	case config.DBMemory:
		return &Set{Users: memory.NewUserRepository(), Expenses: memory.NewExpenseRepository()}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}
}

func openMongo(ctx context.Context, cfg config.Config) (*Set, error) {
	client, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.DBTimeout)
	if err != nil {
		return nil, err
	}
	set := &Set{closers: []func(context.Context) error{client.Disconnect}}

	ctx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	defer cancel()
	db := client.Database(cfg.MongoDatabase)
	users, err := mongorepo.NewUserRepository(ctx, db)
	if err != nil {
		_ = set.Close(context.Background())
		return nil, err
	}
	expenses, err := mongorepo.NewExpenseRepository(ctx, db)
	if err != nil {
		_ = set.Close(context.Background())
		return nil, err
	}
	set.Users, set.Expenses = users, expenses
	set.Checkers = []health.Checker{checkers.NewMongoChecker(client, cfg.DBTimeout)}
	return set, nil
}

func openPostgres(ctx context.Context, cfg config.Config, log *slog.Logger) (*Set, error) {
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.DBTimeout)
	if err != nil {
		return nil, err
	}
	set := &Set{closers: []func(context.Context) error{func(context.Context) error { pool.Close(); return nil }}}
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		_ = set.Close(context.Background())
		return nil, err
	}
	set.Users = pgrepo.NewUserRepository(pool)
	set.Expenses = pgrepo.NewExpenseRepository(pool)
	set.Checkers = []health.Checker{checkers.NewPostgresChecker(pool, cfg.DBTimeout)}
	return set, nil
}

func openSQLite(ctx context.Context, cfg config.Config, log *slog.Logger) (*Set, error) {
	db, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.DBTimeout)
	if err != nil {
		return nil, err
	}
	set := &Set{closers: []func(context.Context) error{func(context.Context) error { return db.Close() }}}
	if err := sqlite.Migrate(ctx, db, log); err != nil {
		_ = set.Close(context.Background())
		return nil, err
	}
	set.Users = sqliterepo.NewUserRepository(db)
	set.Expenses = sqliterepo.NewExpenseRepository(db)
	set.Checkers = []health.Checker{checkers.NewSQLChecker("sqlite", db, cfg.DBTimeout)}
	return set, nil
}
