package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type TimeSlotRepo interface {
	Create(dbc dbctx.Context, rows []*types.TimeSlot) ([]*types.TimeSlot, error)
	ListByIntervention(dbc dbctx.Context, interventionID uuid.UUID) ([]*types.TimeSlot, error)

	// ReassignProviderSlots moves a provider's slots from a parent
	// intervention onto its child during a split.
	ReassignProviderSlots(dbc dbctx.Context, fromInterventionID, providerID, toInterventionID uuid.UUID) (int64, error)
}

type timeSlotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimeSlotRepo(db *gorm.DB, baseLog *logger.Logger) TimeSlotRepo {
	return &timeSlotRepo{db: db, log: baseLog.With("repo", "TimeSlotRepo")}
}

func (r *timeSlotRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *timeSlotRepo) Create(dbc dbctx.Context, rows []*types.TimeSlot) ([]*types.TimeSlot, error) {
	if len(rows) == 0 {
		return []*types.TimeSlot{}, nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return nil, MapError("time_slot.create", err)
	}
	return rows, nil
}

func (r *timeSlotRepo) ListByIntervention(dbc dbctx.Context, interventionID uuid.UUID) ([]*types.TimeSlot, error) {
	var out []*types.TimeSlot
	if interventionID == uuid.Nil {
		return out, nil
	}
	if err := r.base(dbc).Where("intervention_id = ?", interventionID).Order("starts_at ASC").Find(&out).Error; err != nil {
		return nil, MapError("time_slot.list_by_intervention", err)
	}
	return out, nil
}

func (r *timeSlotRepo) ReassignProviderSlots(dbc dbctx.Context, fromInterventionID, providerID, toInterventionID uuid.UUID) (int64, error) {
	if fromInterventionID == uuid.Nil || providerID == uuid.Nil || toInterventionID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).
		Model(&types.TimeSlot{}).
		Where("intervention_id = ? AND provider_id = ?", fromInterventionID, providerID).
		Update("intervention_id", toInterventionID)
	if res.Error != nil {
		return 0, MapError("time_slot.reassign_provider", res.Error)
	}
	return res.RowsAffected, nil
}
