package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/khel-bhoomi/backend/internal/models"
	"github.com/khel-bhoomi/backend/internal/repository"
	"github.com/khel-bhoomi/backend/internal/utils"
	"github.com/khel-bhoomi/backend/pkg/logger"
	"go.uber.org/zap"
)

// ContextUserKey is where the authenticated user is stored in the gin context.
const ContextUserKey = "current_user"

// Authenticate runs the full authorization gate for one request: bearer
// extraction, token validation, and a re-fetch of the user record by the
// token subject. The re-fetch means a deleted account is rejected
// immediately even while its token is unexpired. On failure a 401 has been
// written and the request aborted.
func Authenticate(c *gin.Context, jwtSecret string, users *repository.UserRepository) (*models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Authorization header required",
		})
		return nil, false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid authorization format. Use: Bearer <token>",
		})
		return nil, false
	}

	subject, err := utils.ValidateToken(tokenString, jwtSecret)
	if err != nil {
		// The classified failure is logged; the response never
		// distinguishes why the token was rejected.
		logger.Log.Debug("Token rejected",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired token",
		})
		return nil, false
	}

	user, err := users.GetUserByUsername(subject)
	if err != nil {
		logger.Log.Error("Failed to load user for token subject",
			zap.String("subject", subject),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return nil, false
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "User not found",
		})
		return nil, false
	}

	return user, true
}

// AuthMiddleware guards a route group with the authorization gate and
// exposes the authenticated user to handlers via the context.
func AuthMiddleware(jwtSecret string, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Authenticate(c, jwtSecret, users)
		if !ok {
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
