package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/aumugisha-umu/seido-backend/internal/http/handlers"
	httpMW "github.com/aumugisha-umu/seido-backend/internal/http/middleware"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	InterventionHandler *httpH.InterventionHandler
	QuoteHandler        *httpH.QuoteHandler
	NotificationHandler *httpH.NotificationHandler
	RealtimeHandler     *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.Stream)
		}

		// Interventions
		if cfg.InterventionHandler != nil {
			protected.GET("/interventions", cfg.InterventionHandler.ListByLot)
			protected.GET("/interventions/:id", cfg.InterventionHandler.Get)
			protected.GET("/interventions/:id/activity", cfg.InterventionHandler.Activity)
			protected.POST("/interventions/:id/reject", cfg.InterventionHandler.Reject)
			protected.POST("/interventions/:id/cancel", cfg.InterventionHandler.Cancel)
			protected.POST("/interventions/:id/accept-schedule", cfg.InterventionHandler.AcceptSchedule)
			protected.POST("/interventions/:id/split", cfg.InterventionHandler.Split)
			protected.POST("/interventions/:id/confirmation", cfg.InterventionHandler.RespondConfirmation)
		}

		// Quotes
		if cfg.QuoteHandler != nil {
			protected.POST("/interventions/:id/quotes", cfg.QuoteHandler.Submit)
			protected.POST("/quotes/:id/approve", cfg.QuoteHandler.Approve)
			protected.POST("/quotes/:id/reject", cfg.QuoteHandler.Reject)
			protected.POST("/quotes/:id/cancel", cfg.QuoteHandler.Cancel)
		}

		// Notifications
		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.List)
			protected.POST("/notifications/read", cfg.NotificationHandler.MarkRead)
		}
	}

	return r
}
