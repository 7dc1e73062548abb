package checkers

import (
	"context"
	"database/sql"
	"time"
)

// SQLChecker pings a database/sql handle.
type SQLChecker struct {
	name    string
	db      *sql.DB
	timeout time.Duration
}

func NewSQLChecker(name string, db *sql.DB, timeout time.Duration) *SQLChecker {
	return &SQLChecker{name: name, db: db, timeout: orDefault(timeout)}
}

func (c *SQLChecker) Name() string { return c.name }

func (c *SQLChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.db.PingContext(ctx)
}
