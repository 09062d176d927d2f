package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, row *types.UserToken) error
	GetByRefreshToken(dbc dbctx.Context, token string) (*types.UserToken, error)
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *userTokenRepo) Create(dbc dbctx.Context, row *types.UserToken) error {
	if row == nil {
		return nil
	}
	if err := r.base(dbc).Create(row).Error; err != nil {
		return MapError("user_token.create", err)
	}
	return nil
}

func (r *userTokenRepo) GetByRefreshToken(dbc dbctx.Context, token string) (*types.UserToken, error) {
	if token == "" {
		return nil, nil
	}
	var out []*types.UserToken
	if err := r.base(dbc).Where("refresh_token = ?", token).Limit(1).Find(&out).Error; err != nil {
		return nil, MapError("user_token.get_by_refresh", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userTokenRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	if err := r.base(dbc).Where("user_id = ?", userID).Delete(&types.UserToken{}).Error; err != nil {
		return MapError("user_token.delete_by_user", err)
	}
	return nil
}
