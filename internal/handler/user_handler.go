package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khel-bhoomi/backend/internal/middleware"
	"github.com/khel-bhoomi/backend/internal/repository"
	"github.com/khel-bhoomi/backend/internal/service"
	"github.com/khel-bhoomi/backend/pkg/logger"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
	userRepo    *repository.UserRepository
	jwtSecret   string
}

func NewUserHandler(userService *service.UserService, userRepo *repository.UserRepository, jwtSecret string) *UserHandler {
	return &UserHandler{
		userService: userService,
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
	}
}

type UpdateProfileRequest struct {
	FullName        *string   `json:"full_name"`
	Bio             *string   `json:"bio"`
	ProfileImage    *string   `json:"profile_image"`
	SportsInterests *[]string `json:"sports_interests"`
}

// UpdateMe applies a partial profile update to the authenticated user.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, service.ProfileUpdate{
		FullName:        req.FullName,
		Bio:             req.Bio,
		ProfileImage:    req.ProfileImage,
		SportsInterests: req.SportsInterests,
	})
	if err != nil {
		if errors.Is(err, service.ErrNoFieldsToUpdate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Log.Error("Profile update failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Profile serves GET /users/:username. The literal path "users/me" lands
// here too since gin routes it through the same wildcard, so "me" is
// dispatched through the authorization gate instead of a username lookup.
func (h *UserHandler) Profile(c *gin.Context) {
	username := c.Param("username")

	if username == "me" {
		user, ok := middleware.Authenticate(c, h.jwtSecret, h.userRepo)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	user, err := h.userService.GetProfile(username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Log.Error("Profile lookup failed",
			zap.String("username", username),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}
