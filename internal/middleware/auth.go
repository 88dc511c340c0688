// Package middleware contains the gin middleware of the feedback
// application: bearer-token authentication and role gates.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"feedbackapp/internal/config"
	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserKey is the gin context key the authenticated user is stored under.
const UserKey = "currentUser"

// UserLoader loads the account behind a token subject. The user service
// satisfies it.
type UserLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RequireAuth verifies the Authorization: Bearer <token> header, loads the
// account and stores it in the gin context. Soft-deleted accounts are
// rejected even when their token is still valid.
func RequireAuth(cfg *config.JWTConfig, users UserLoader, logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			unauthorized(c, "authorization header format must be Bearer {token}")
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "invalid token claims")
			return
		}
		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			unauthorized(c, "invalid token subject")
			return
		}
		userID, err := primitive.ObjectIDFromHex(sub)
		if err != nil {
			unauthorized(c, "invalid token subject")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if contextutils.IsError(err, contextutils.ErrRecordNotFound) {
				unauthorized(c, "invalid token")
				return
			}
			logger.Error(c.Request.Context(), "Failed to load user for token", err, map[string]interface{}{
				"user_id": sub,
			})
			appErr := contextutils.NewAppError(contextutils.ErrorCodeInternalError, contextutils.SeverityError, "Internal server error", "")
			c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToJSON())
			return
		}
		if user.IsDeleted {
			unauthorized(c, "invalid token")
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// RequireAdmin gates a route to ADMIN accounts. It must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			unauthorized(c, "authentication required")
			return
		}
		if !user.IsAdmin() {
			appErr := contextutils.NewAppError(contextutils.ErrorCodeForbidden, contextutils.SeverityWarn, "Admin access required", "")
			c.AbortWithStatusJSON(http.StatusForbidden, appErr.ToJSON())
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func unauthorized(c *gin.Context, message string) {
	appErr := contextutils.NewAppError(contextutils.ErrorCodeUnauthorized, contextutils.SeverityWarn, message, "")
	c.AbortWithStatusJSON(http.StatusUnauthorized, appErr.ToJSON())
}
