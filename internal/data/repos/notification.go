package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type NotificationRepo interface {
	Insert(dbc dbctx.Context, rows []*types.Notification) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error)
	MarkRead(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *notificationRepo) Insert(dbc dbctx.Context, rows []*types.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return MapError("notification.insert", err)
	}
	return nil
}

func (r *notificationRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error) {
	var out []*types.Notification
	if userID == uuid.Nil {
		return out, nil
	}
	q := r.base(dbc).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, MapError("notification.list_by_user", err)
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if userID == uuid.Nil || len(ids) == 0 {
		return 0, nil
	}
	res := r.base(dbc).
		Model(&types.Notification{}).
		Where("user_id = ? AND id IN ? AND read_at IS NULL", userID, ids).
		Update("read_at", time.Now().UTC())
	if res.Error != nil {
		return 0, MapError("notification.mark_read", res.Error)
	}
	return res.RowsAffected, nil
}
