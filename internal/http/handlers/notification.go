package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aumugisha-umu/seido-backend/internal/data/repos"
	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/http/response"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/ctxutil"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type NotificationHandler struct {
	log           *logger.Logger
	notifications repos.NotificationRepo
}

func NewNotificationHandler(log *logger.Logger, notifications repos.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{log: log.With("handler", "NotificationHandler"), notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondWorkflowError(c, workflow.NewError(workflow.CodeUnauthorized, "notification.list", "missing authenticated actor", nil))
		return
	}
	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := h.notifications.ListByUser(dbctx.Context{Ctx: c.Request.Context()}, rd.UserID, unreadOnly, limit)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": rows})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondWorkflowError(c, workflow.NewError(workflow.CodeUnauthorized, "notification.mark_read", "missing authenticated actor", nil))
		return
	}
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		response.RespondWorkflowError(c, workflow.NewError(workflow.CodeValidation, "notification.mark_read", "ids are required", err))
		return
	}
	n, err := h.notifications.MarkRead(dbctx.Context{Ctx: c.Request.Context()}, rd.UserID, req.IDs)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": n})
}
