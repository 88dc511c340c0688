package handlers

import (
	"net/http"

	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"

	"github.com/gin-gonic/gin"
)

// PasswordResetHandler handles the unauthenticated password-reset flow.
type PasswordResetHandler struct {
	resetService *services.PasswordResetService
	logger       *observability.Logger
}

// NewPasswordResetHandler creates a new PasswordResetHandler instance.
func NewPasswordResetHandler(resetService *services.PasswordResetService, logger *observability.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{resetService: resetService, logger: logger}
}

// Request handles GET /api/reset-password/:username. It always answers
// 200 {} so the endpoint cannot be used to probe which usernames exist;
// store or mail failures are logged and swallowed.
func (h *PasswordResetHandler) Request(c *gin.Context) {
	if err := h.resetService.Request(c.Request.Context(), c.Param("username")); err != nil {
		h.logger.Error(c.Request.Context(), "Password reset request failed", err, nil)
	}
	c.JSON(http.StatusOK, gin.H{})
}

type completeResetRequest struct {
	Username           string `json:"username" binding:"required"`
	Key                string `json:"key" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

// Complete handles PATCH /api/reset-password.
func (h *PasswordResetHandler) Complete(c *gin.Context) {
	var req completeResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "username, key, newPassword and confirmNewPassword are required")
		return
	}

	err := h.resetService.Complete(c.Request.Context(), req.Username, req.Key, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
