package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

// ActivityLogRepo is append-only; entries are never updated or deleted.
type ActivityLogRepo interface {
	Insert(dbc dbctx.Context, rows []*types.ActivityLogEntry) error
	ListByEntity(dbc dbctx.Context, entityType string, entityID uuid.UUID, limit int) ([]*types.ActivityLogEntry, error)
}

type activityLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityLogRepo(db *gorm.DB, baseLog *logger.Logger) ActivityLogRepo {
	return &activityLogRepo{db: db, log: baseLog.With("repo", "ActivityLogRepo")}
}

func (r *activityLogRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *activityLogRepo) Insert(dbc dbctx.Context, rows []*types.ActivityLogEntry) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return MapError("activity_log.insert", err)
	}
	return nil
}

func (r *activityLogRepo) ListByEntity(dbc dbctx.Context, entityType string, entityID uuid.UUID, limit int) ([]*types.ActivityLogEntry, error) {
	var out []*types.ActivityLogEntry
	if entityType == "" || entityID == uuid.Nil {
		return out, nil
	}
	q := r.base(dbc).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, MapError("activity_log.list_by_entity", err)
	}
	return out, nil
}
