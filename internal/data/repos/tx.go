package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
)

// TxRunner is the shared transaction boundary for multi-write operations.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return workflow.NewError(workflow.CodeInternal, "repos.tx", "transaction runner has nil db", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
