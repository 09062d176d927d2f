package app

import (
	"gorm.io/gorm"

	"github.com/aumugisha-umu/seido-backend/internal/data/repos"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type Repos struct {
	Tx           repos.TxRunner
	Intervention repos.InterventionRepo
	Quote        repos.QuoteRepo
	Assignment   repos.AssignmentRepo
	ActivityLog  repos.ActivityLogRepo
	Notification repos.NotificationRepo
	Comment      repos.CommentRepo
	TimeSlot     repos.TimeSlotRepo
	Lot          repos.LotRepo
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Tx:           repos.NewGormTxRunner(db),
		Intervention: repos.NewInterventionRepo(db, log),
		Quote:        repos.NewQuoteRepo(db, log),
		Assignment:   repos.NewAssignmentRepo(db, log),
		ActivityLog:  repos.NewActivityLogRepo(db, log),
		Notification: repos.NewNotificationRepo(db, log),
		Comment:      repos.NewCommentRepo(db, log),
		TimeSlot:     repos.NewTimeSlotRepo(db, log),
		Lot:          repos.NewLotRepo(db, log),
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
	}
}
