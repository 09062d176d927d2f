package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/aumugisha-umu/seido-backend/internal/http"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:                 log,
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      middleware.Auth,
		InterventionHandler: handlers.Intervention,
		QuoteHandler:        handlers.Quote,
		NotificationHandler: handlers.Notification,
		RealtimeHandler:     handlers.Realtime,
		HealthHandler:       handlers.Health,
	})
}
