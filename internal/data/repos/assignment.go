package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type AssignmentRepo interface {
	Create(dbc dbctx.Context, rows []*types.Assignment) ([]*types.Assignment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error)
	ListByIntervention(dbc dbctx.Context, interventionID uuid.UUID) ([]*types.Assignment, error)
	GetForUser(dbc dbctx.Context, interventionID, userID uuid.UUID) (*types.Assignment, error)

	// UpdateConfirmationGuarded moves confirmation_status only out of the
	// expected set. Reports whether the guard matched.
	UpdateConfirmationGuarded(dbc dbctx.Context, id uuid.UUID, next types.ConfirmationStatus, expected []string) (bool, error)
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{db: db, log: baseLog.With("repo", "AssignmentRepo")}
}

func (r *assignmentRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *assignmentRepo) Create(dbc dbctx.Context, rows []*types.Assignment) ([]*types.Assignment, error) {
	if len(rows) == 0 {
		return []*types.Assignment{}, nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return nil, MapError("assignment.create", err)
	}
	return rows, nil
}

func (r *assignmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Assignment
	if err := r.base(dbc).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, MapError("assignment.get", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *assignmentRepo) ListByIntervention(dbc dbctx.Context, interventionID uuid.UUID) ([]*types.Assignment, error) {
	var out []*types.Assignment
	if interventionID == uuid.Nil {
		return out, nil
	}
	if err := r.base(dbc).Where("intervention_id = ?", interventionID).Find(&out).Error; err != nil {
		return nil, MapError("assignment.list_by_intervention", err)
	}
	return out, nil
}

func (r *assignmentRepo) GetForUser(dbc dbctx.Context, interventionID, userID uuid.UUID) (*types.Assignment, error) {
	if interventionID == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Assignment
	if err := r.base(dbc).
		Where("intervention_id = ? AND user_id = ?", interventionID, userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, MapError("assignment.get_for_user", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *assignmentRepo) UpdateConfirmationGuarded(dbc dbctx.Context, id uuid.UUID, next types.ConfirmationStatus, expected []string) (bool, error) {
	if id == uuid.Nil || len(expected) == 0 {
		return false, nil
	}
	res := r.base(dbc).
		Model(&types.Assignment{}).
		Where("id = ? AND confirmation_status IN ?", id, expected).
		Updates(map[string]any{
			"confirmation_status": string(next),
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return false, MapError("assignment.update_confirmation", res.Error)
	}
	return res.RowsAffected > 0, nil
}
