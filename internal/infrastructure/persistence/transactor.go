package persistence

import (
	"context"

	"github.com/koperasi/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTransactor implements shared.Transactor on top of GORM transactions.
// The transaction handle travels in the context so repositories created
// against the base connection participate when called inside the closure.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction runs fn inside a database transaction. The closure
// receives a context carrying the transaction; nested calls reuse the
// ambient transaction instead of opening a new one.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// txFromContext returns the transaction carried by ctx, or nil
func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbForContext returns the transaction from ctx when present, otherwise the
// base connection. Every repository resolves its handle through this.
func dbForContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

var _ shared.Transactor = (*GormTransactor)(nil)
