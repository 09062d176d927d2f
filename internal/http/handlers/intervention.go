package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/http/response"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
	"github.com/aumugisha-umu/seido-backend/internal/services"
)

type InterventionHandler struct {
	log           *logger.Logger
	workflowSvc   services.InterventionWorkflowService
	splitSvc      services.InterventionSplitService
	confirmations services.ConfirmationService
	queries       services.InterventionQueryService
}

func NewInterventionHandler(
	log *logger.Logger,
	workflowSvc services.InterventionWorkflowService,
	splitSvc services.InterventionSplitService,
	confirmations services.ConfirmationService,
	queries services.InterventionQueryService,
) *InterventionHandler {
	return &InterventionHandler{
		log:           log.With("handler", "InterventionHandler"),
		workflowSvc:   workflowSvc,
		splitSvc:      splitSvc,
		confirmations: confirmations,
		queries:       queries,
	}
}

func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, workflow.NewError(workflow.CodeValidation, "http.path_id", "invalid "+name, err)
	}
	return id, nil
}

func (h *InterventionHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	detail, err := h.queries.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

func (h *InterventionHandler) ListByLot(c *gin.Context) {
	lotID, err := uuid.Parse(strings.TrimSpace(c.Query("lot_id")))
	if err != nil {
		response.RespondWorkflowError(c, workflow.NewError(workflow.CodeValidation, "intervention.list", "invalid lot_id", err))
		return
	}
	var statuses []string
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		statuses = strings.Split(raw, ",")
	}
	rows, err := h.queries.ListByLot(c.Request.Context(), lotID, statuses)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"interventions": rows})
}

func (h *InterventionHandler) Activity(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := h.queries.Activity(c.Request.Context(), id, limit)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activity": rows})
}

func (h *InterventionHandler) Reject(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	var req struct {
		Reason          string `json:"reason"`
		InternalComment string `json:"internal_comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondWorkflowError(c, workflow.Wrap(workflow.CodeValidation, "intervention.reject", err))
		return
	}
	iv, err := h.workflowSvc.Reject(c.Request.Context(), services.RejectInterventionInput{
		InterventionID:  id,
		Reason:          req.Reason,
		InternalComment: req.InternalComment,
	})
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"intervention": iv})
}

func (h *InterventionHandler) Cancel(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondWorkflowError(c, workflow.Wrap(workflow.CodeValidation, "intervention.cancel", err))
		return
	}
	iv, err := h.workflowSvc.Cancel(c.Request.Context(), services.CancelInterventionInput{
		InterventionID: id,
		Reason:         req.Reason,
	})
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"intervention": iv})
}

func (h *InterventionHandler) AcceptSchedule(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	iv, err := h.workflowSvc.AcceptSchedule(c.Request.Context(), id)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"intervention": iv})
}

func (h *InterventionHandler) Split(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	result, err := h.splitSvc.Split(c.Request.Context(), id)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondCreated(c, result)
}

func (h *InterventionHandler) RespondConfirmation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	var req struct {
		Accept *bool `json:"accept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Accept == nil {
		response.RespondWorkflowError(c, workflow.NewError(workflow.CodeValidation, "confirmation.respond", "accept is required", err))
		return
	}
	assignment, err := h.confirmations.Respond(c.Request.Context(), services.ConfirmationInput{
		InterventionID: id,
		Accept:         *req.Accept,
	})
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignment": assignment})
}
