package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type QuoteRepo interface {
	Create(dbc dbctx.Context, rows []*types.Quote) ([]*types.Quote, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quote, error)
	ListByIntervention(dbc dbctx.Context, interventionID uuid.UUID) ([]*types.Quote, error)

	// UpdateStatusGuarded updates the quote only when its current status is in
	// expected (legacy pending aliases included by the caller). Reports whether
	// the guard matched.
	UpdateStatusGuarded(dbc dbctx.Context, id uuid.UUID, next types.QuoteStatus, expected []string, extra map[string]any) (bool, error)

	// BulkRejectOthers rejects every quote of the intervention whose status is
	// still in expected, excluding excludeID, as a single conditional batch
	// update. Returns the number of rejected rows.
	BulkRejectOthers(dbc dbctx.Context, interventionID, excludeID uuid.UUID, expected []string, reason string, rejectedBy uuid.UUID) (int64, error)

	// ReassignProviderQuotes moves a provider's quotes from a parent
	// intervention onto its child during a split.
	ReassignProviderQuotes(dbc dbctx.Context, fromInterventionID, providerID, toInterventionID uuid.UUID) (int64, error)
}

type quoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	return &quoteRepo{db: db, log: baseLog.With("repo", "QuoteRepo")}
}

func (r *quoteRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *quoteRepo) Create(dbc dbctx.Context, rows []*types.Quote) ([]*types.Quote, error) {
	if len(rows) == 0 {
		return []*types.Quote{}, nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return nil, MapError("quote.create", err)
	}
	return rows, nil
}

func (r *quoteRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quote, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Quote
	if err := r.base(dbc).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, MapError("quote.get", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *quoteRepo) ListByIntervention(dbc dbctx.Context, interventionID uuid.UUID) ([]*types.Quote, error) {
	var out []*types.Quote
	if interventionID == uuid.Nil {
		return out, nil
	}
	if err := r.base(dbc).Where("intervention_id = ?", interventionID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, MapError("quote.list_by_intervention", err)
	}
	return out, nil
}

func (r *quoteRepo) UpdateStatusGuarded(dbc dbctx.Context, id uuid.UUID, next types.QuoteStatus, expected []string, extra map[string]any) (bool, error) {
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
		Model(&types.Quote{}).
		Where("id = ? AND status IN ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, MapError("quote.update_status", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *quoteRepo) BulkRejectOthers(dbc dbctx.Context, interventionID, excludeID uuid.UUID, expected []string, reason string, rejectedBy uuid.UUID) (int64, error) {
	if interventionID == uuid.Nil || len(expected) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	res := r.base(dbc).
		Model(&types.Quote{}).
		Where("intervention_id = ? AND id <> ? AND status IN ?", interventionID, excludeID, expected).
		Updates(map[string]any{
			"status":           string(types.QuoteRejected),
			"rejection_reason": reason,
			"validated_by":     rejectedBy,
			"validated_at":     now,
			"updated_at":       now,
		})
	if res.Error != nil {
		return 0, MapError("quote.bulk_reject", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *quoteRepo) ReassignProviderQuotes(dbc dbctx.Context, fromInterventionID, providerID, toInterventionID uuid.UUID) (int64, error) {
	if fromInterventionID == uuid.Nil || providerID == uuid.Nil || toInterventionID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).
		Model(&types.Quote{}).
		Where("intervention_id = ? AND provider_id = ?", fromInterventionID, providerID).
		Updates(map[string]any{
			"intervention_id": toInterventionID,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, MapError("quote.reassign_provider", res.Error)
	}
	return res.RowsAffected, nil
}
