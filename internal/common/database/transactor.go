package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs a function inside a single database transaction. Repositories
// built on Conn pick the transaction up from the context, so every repository call
// made with the callback's context shares it.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// InTx executes fn in a read-write transaction. A transaction already present in
// ctx is reused rather than nested.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// InReadTx executes fn in a read-only, read-committed transaction.
func (t *Transactor) InReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	opts := &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: true}
	if t.db.Dialector.Name() == "sqlite" {
		opts = nil
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	}, opts)
}

// Conn returns the transaction bound to ctx, or db scoped to ctx if there is none.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
