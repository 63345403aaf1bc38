package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txKey struct{}

// TransactionManager runs a unit of work inside one transaction carried by the context.
// Repositories join it through GetDB; a nested RunInTx becomes a savepoint.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return GetDB(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetDB returns the context's transaction when one is open, otherwise the root handle.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}

// InTx reports whether ctx carries an open transaction
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

// Savepoint runs fn so that its failure rolls back only fn's statements.
// Inside a transaction this is a SAVEPOINT; outside it is a transaction of its own.
func Savepoint(ctx context.Context, rootDB *gorm.DB, fn func(tx *gorm.DB) error) error {
	return GetDB(ctx, rootDB).Transaction(fn)
}

// ForUpdate selects with a row lock held until the context's transaction ends.
// Dialects without row locks (sqlite) ignore the clause.
func ForUpdate(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	return GetDB(ctx, rootDB).Clauses(clause.Locking{Strength: "UPDATE"})
}
