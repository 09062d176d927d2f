package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type InterventionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Intervention) ([]*types.Intervention, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Intervention, error)
	ListByLot(dbc dbctx.Context, lotID uuid.UUID, statuses []string) ([]*types.Intervention, error)
	ListByParent(dbc dbctx.Context, parentID uuid.UUID) ([]*types.Intervention, error)

	// UpdateStatusGuarded performs the conditional write that keeps
	// cross-request races out of the state machine: the row is updated only
	// when its current status is in expected. The boolean reports whether the
	// guard matched.
	UpdateStatusGuarded(dbc dbctx.Context, id uuid.UUID, next types.InterventionStatus, expected []string, extra map[string]any) (bool, error)
}

type interventionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterventionRepo(db *gorm.DB, baseLog *logger.Logger) InterventionRepo {
	return &interventionRepo{db: db, log: baseLog.With("repo", "InterventionRepo")}
}

func (r *interventionRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *interventionRepo) Create(dbc dbctx.Context, rows []*types.Intervention) ([]*types.Intervention, error) {
	if len(rows) == 0 {
		return []*types.Intervention{}, nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return nil, MapError("intervention.create", err)
	}
	return rows, nil
}

func (r *interventionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Intervention, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Intervention
	if err := r.base(dbc).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, MapError("intervention.get", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *interventionRepo) ListByLot(dbc dbctx.Context, lotID uuid.UUID, statuses []string) ([]*types.Intervention, error) {
	var out []*types.Intervention
	if lotID == uuid.Nil {
		return out, nil
	}
	q := r.base(dbc).Where("lot_id = ?", lotID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, MapError("intervention.list_by_lot", err)
	}
	return out, nil
}

func (r *interventionRepo) ListByParent(dbc dbctx.Context, parentID uuid.UUID) ([]*types.Intervention, error) {
	var out []*types.Intervention
	if parentID == uuid.Nil {
		return out, nil
	}
	if err := r.base(dbc).Where("parent_intervention_id = ?", parentID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, MapError("intervention.list_by_parent", err)
	}
	return out, nil
}

func (r *interventionRepo) UpdateStatusGuarded(dbc dbctx.Context, id uuid.UUID, next types.InterventionStatus, expected []string, extra map[string]any) (bool, error) {
	if id == uuid.Nil || len(expected) == 0 {
		return false, nil
	}
	updates := map[string]any{
		"status":     string(next),
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.base(dbc).
		Model(&types.Intervention{}).
		Where("id = ? AND status IN ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, MapError("intervention.update_status", res.Error)
	}
	return res.RowsAffected > 0, nil
}
