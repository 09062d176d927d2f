package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type LotRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lot, error)

	// ListManagerIDs returns the user ids of the managers attached to a lot.
	ListManagerIDs(dbc dbctx.Context, lotID uuid.UUID) ([]uuid.UUID, error)
}

type lotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLotRepo(db *gorm.DB, baseLog *logger.Logger) LotRepo {
	return &lotRepo{db: db, log: baseLog.With("repo", "LotRepo")}
}

func (r *lotRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *lotRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lot, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Lot
	if err := r.base(dbc).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, MapError("lot.get", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *lotRepo) ListManagerIDs(dbc dbctx.Context, lotID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if lotID == uuid.Nil {
		return out, nil
	}
	if err := r.base(dbc).
		Model(&types.LotManager{}).
		Where("lot_id = ?", lotID).
		Pluck("user_id", &out).Error; err != nil {
		return nil, MapError("lot.list_manager_ids", err)
	}
	return out, nil
}
