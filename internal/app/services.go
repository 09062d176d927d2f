package app

import (
	"gorm.io/gorm"

	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
	"github.com/aumugisha-umu/seido-backend/internal/platform/sendgrid"
	"github.com/aumugisha-umu/seido-backend/internal/realtime"
	"github.com/aumugisha-umu/seido-backend/internal/services"
)

type Services struct {
	Auth                 services.AuthService
	InterventionWorkflow services.InterventionWorkflowService
	InterventionSplit    services.InterventionSplitService
	InterventionQueries  services.InterventionQueryService
	QuoteWorkflow        services.QuoteWorkflowService
	Confirmation         services.ConfirmationService
	Notifier             services.Notifier
	Recorder             services.ActivityRecorder
	Effects              *services.SideEffectQueue
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, push realtime.Publisher) Services {
	log.Info("Wiring services...")

	// Email is optional: without SENDGRID_API_KEY the channel is skipped.
	var email sendgrid.Client
	if client, err := sendgrid.NewFromEnv(log); err != nil {
		log.Warn("SendGrid disabled", "error", err)
	} else {
		email = client
	}

	effects := services.NewSideEffectQueue(log, cfg.SideEffectQueueSize, cfg.SideEffectWorkerCount)
	notifier := services.NewNotifier(log, r.Notification, r.User, push, email)
	recorder := services.NewActivityRecorder(db, log, r.ActivityLog)

	return Services{
		Auth: services.NewAuthService(log, services.AuthConfig{
			JWTSecret:  cfg.JWTSecretKey,
			AccessTTL:  cfg.AccessTokenTTL,
			RefreshTTL: cfg.RefreshTokenTTL,
		}, r.User, r.UserToken),
		InterventionWorkflow: services.NewInterventionWorkflowService(
			log, r.Tx, r.Intervention, r.Assignment, r.Comment, r.TimeSlot, notifier, recorder, effects),
		InterventionSplit: services.NewInterventionSplitService(
			log, r.Tx, r.Intervention, r.Assignment, r.Quote, r.TimeSlot, r.Comment, notifier, recorder, effects),
		InterventionQueries: services.NewInterventionQueryService(
			log, r.Intervention, r.Assignment, r.Quote, r.TimeSlot, r.Comment, r.ActivityLog),
		QuoteWorkflow: services.NewQuoteWorkflowService(
			log, r.Tx, r.Quote, r.Intervention, r.Assignment, r.Lot, notifier, recorder, effects),
		Confirmation: services.NewConfirmationService(log, r.Assignment, notifier, recorder, effects),
		Notifier:     notifier,
		Recorder:     recorder,
		Effects:      effects,
	}
}
