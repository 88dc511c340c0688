package handlers

import (
	"net/http"

	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserAdminHandler handles the admin-only account management endpoints.
type UserAdminHandler struct {
	userService *services.UserService
	logger      *observability.Logger
}

// NewUserAdminHandler creates a new UserAdminHandler instance.
func NewUserAdminHandler(userService *services.UserService, logger *observability.Logger) *UserAdminHandler {
	return &UserAdminHandler{userService: userService, logger: logger}
}

// List handles GET /api/users.
func (h *UserAdminHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Username  string   `json:"username" binding:"required"`
	Password  string   `json:"password" binding:"required"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles" binding:"required"`
}

// Create handles POST /api/users.
func (h *UserAdminHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "username, password and roles are required")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), services.UserInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
	})
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type updateUserRequest struct {
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Roles     []string `json:"roles"`
	IsDeleted *bool    `json:"isDeleted"`
	Password  *string  `json:"password"`
}

// Update handles PATCH /api/users/:id.
func (h *UserAdminHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		HandleValidationError(c, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "invalid request body")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, services.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
		IsDeleted: req.IsDeleted,
		Password:  req.Password,
	})
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/users/:id. Accounts are soft-deleted so their
// past feedback keeps its author.
func (h *UserAdminHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		HandleValidationError(c, "invalid user id")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
