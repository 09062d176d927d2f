package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/http/response"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
	"github.com/aumugisha-umu/seido-backend/internal/services"
)

type QuoteHandler struct {
	log      *logger.Logger
	quoteSvc services.QuoteWorkflowService
}

func NewQuoteHandler(log *logger.Logger, quoteSvc services.QuoteWorkflowService) *QuoteHandler {
	return &QuoteHandler{log: log.With("handler", "QuoteHandler"), quoteSvc: quoteSvc}
}

func (h *QuoteHandler) Submit(c *gin.Context) {
	interventionID, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	var req struct {
		AmountCents int64  `json:"amount_cents"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondWorkflowError(c, workflow.Wrap(workflow.CodeValidation, "quote.submit", err))
		return
	}
	quote, err := h.quoteSvc.Submit(c.Request.Context(), services.SubmitQuoteInput{
		InterventionID: interventionID,
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		Description:    req.Description,
	})
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"quote": quote})
}

func (h *QuoteHandler) Approve(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	quote, err := h.quoteSvc.Approve(c.Request.Context(), id)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quote": quote})
}

func (h *QuoteHandler) Reject(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondWorkflowError(c, workflow.Wrap(workflow.CodeValidation, "quote.reject", err))
		return
	}
	quote, err := h.quoteSvc.Reject(c.Request.Context(), services.RejectQuoteInput{QuoteID: id, Reason: req.Reason})
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quote": quote})
}

func (h *QuoteHandler) Cancel(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	quote, err := h.quoteSvc.Cancel(c.Request.Context(), id)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quote": quote})
}
