// Package handlers contains the HTTP layer of the feedback application:
// gin handlers, request/response shaping and the router factory. Handlers
// stay thin; access rules and validation live in internal/services.
package handlers

import (
	"net/http"

	"feedbackapp/internal/middleware"
	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"
	contextutils "feedbackapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signin, token refresh and self-registration.
type AuthHandler struct {
	userService *services.UserService
	logger      *observability.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(userService *services.UserService, logger *observability.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, logger: logger}
}

type signinRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signinResponse struct {
	Token     string   `json:"token"`
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Roles     []string `json:"roles"`
}

// Signin handles POST /api/signin.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "username and password are required")
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if contextutils.IsError(err, contextutils.ErrInvalidCredentials) {
			h.logger.Warn(c.Request.Context(), "Authentication failed", map[string]interface{}{
				"username": models.NormalizeUsername(req.Username),
			})
		}
		HandleAppError(c, err)
		return
	}

	token, err := h.userService.IssueToken(user)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, signinResponse{
		Token:     token,
		ID:        user.ID.Hex(),
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
	})
}

// SigninWithToken handles POST /api/signin/token: it confirms a still-valid
// bearer token and returns the profile behind it.
func (h *AuthHandler) SigninWithToken(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID.Hex(),
		"username":  user.Username,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"roles":     user.Roles,
	})
}

type signupRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Signup handles POST /api/signup. Self-registered accounts always get the
// USER role.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "username and password are required")
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), req.Username, req.Password, req.FirstName, req.LastName)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
