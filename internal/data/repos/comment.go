package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type CommentRepo interface {
	Create(dbc dbctx.Context, rows []*types.InterventionComment) ([]*types.InterventionComment, error)
	ListByIntervention(dbc dbctx.Context, interventionID uuid.UUID, includeInternal bool) ([]*types.InterventionComment, error)

	// ReassignProviderComments moves instructions addressed to a provider from
	// a parent intervention onto its child during a split.
	ReassignProviderComments(dbc dbctx.Context, fromInterventionID, providerID, toInterventionID uuid.UUID) (int64, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *commentRepo) Create(dbc dbctx.Context, rows []*types.InterventionComment) ([]*types.InterventionComment, error) {
	if len(rows) == 0 {
		return []*types.InterventionComment{}, nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return nil, MapError("comment.create", err)
	}
	return rows, nil
}

func (r *commentRepo) ListByIntervention(dbc dbctx.Context, interventionID uuid.UUID, includeInternal bool) ([]*types.InterventionComment, error) {
	var out []*types.InterventionComment
	if interventionID == uuid.Nil {
		return out, nil
	}
	q := r.base(dbc).Where("intervention_id = ?", interventionID)
	if !includeInternal {
		q = q.Where("internal = false")
	}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, MapError("comment.list_by_intervention", err)
	}
	return out, nil
}

func (r *commentRepo) ReassignProviderComments(dbc dbctx.Context, fromInterventionID, providerID, toInterventionID uuid.UUID) (int64, error) {
	if fromInterventionID == uuid.Nil || providerID == uuid.Nil || toInterventionID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).
		Model(&types.InterventionComment{}).
		Where("intervention_id = ? AND recipient_id = ?", fromInterventionID, providerID).
		Update("intervention_id", toInterventionID)
	if res.Error != nil {
		return 0, MapError("comment.reassign_provider", res.Error)
	}
	return res.RowsAffected, nil
}
