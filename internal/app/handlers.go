package app

import (
	httpH "github.com/aumugisha-umu/seido-backend/internal/http/handlers"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
	"github.com/aumugisha-umu/seido-backend/internal/realtime"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	Intervention *httpH.InterventionHandler
	Quote        *httpH.QuoteHandler
	Notification *httpH.NotificationHandler
	Realtime     *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, s Services, r Repos, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		Auth:         httpH.NewAuthHandler(log, s.Auth),
		Intervention: httpH.NewInterventionHandler(log, s.InterventionWorkflow, s.InterventionSplit, s.Confirmation, s.InterventionQueries),
		Quote:        httpH.NewQuoteHandler(log, s.QuoteWorkflow),
		Notification: httpH.NewNotificationHandler(log, r.Notification),
		Realtime:     httpH.NewRealtimeHandler(log, hub),
	}
}
