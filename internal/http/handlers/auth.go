package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/http/response"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
	"github.com/aumugisha-umu/seido-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondWorkflowError(c, workflow.Wrap(workflow.CodeValidation, "auth.register", err))
		return
	}
	result, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondCreated(c, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondWorkflowError(c, workflow.Wrap(workflow.CodeValidation, "auth.login", err))
		return
	}
	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondWorkflowError(c, workflow.Wrap(workflow.CodeValidation, "auth.refresh", err))
		return
	}
	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		response.RespondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
