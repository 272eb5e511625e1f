package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/khel-bhoomi/backend/internal/middleware"
	"github.com/khel-bhoomi/backend/internal/models"
	"github.com/khel-bhoomi/backend/internal/service"
	"github.com/khel-bhoomi/backend/pkg/logger"
	"go.uber.org/zap"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

type CreatePostRequest struct {
	Content    string   `json:"content" binding:"required"`
	PostType   string   `json:"post_type"`
	ImageURL   *string  `json:"image_url"`
	VideoURL   *string  `json:"video_url"`
	SportsTags []string `json:"sports_tags"`
}

// Create handles POST /posts for the authenticated user.
func (h *PostHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.postService.CreatePost(user, service.PostInput{
		Content:    req.Content,
		PostType:   models.PostType(req.PostType),
		ImageURL:   req.ImageURL,
		VideoURL:   req.VideoURL,
		SportsTags: req.SportsTags,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyContent) || errors.Is(err, service.ErrInvalidPostType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Log.Error("Post creation failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Feed handles GET /posts?skip=&limit= with newest-first ordering.
func (h *PostHandler) Feed(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	posts, err := h.postService.GetFeed(skip, limit)
	if err != nil {
		logger.Log.Error("Feed fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// UserPosts handles GET /posts/user/:user_id.
func (h *PostHandler) UserPosts(c *gin.Context) {
	userID := c.Param("user_id")

	posts, err := h.postService.GetUserPosts(userID)
	if err != nil {
		logger.Log.Error("User posts fetch failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}
