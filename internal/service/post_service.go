package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/khel-bhoomi/backend/internal/broker"
	"github.com/khel-bhoomi/backend/internal/models"
	"github.com/khel-bhoomi/backend/internal/repository"
	"github.com/khel-bhoomi/backend/internal/wal"
	"github.com/khel-bhoomi/backend/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrInvalidPostType = errors.New("post type must be one of: text, image, video, achievement, news")
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// PostInput is the caller-supplied part of a new post.
type PostInput struct {
	Content    string
	PostType   models.PostType
	ImageURL   *string
	VideoURL   *string
	SportsTags []string
}

type PostService struct {
	postRepo *repository.PostRepository // for database
	broker   broker.FeedBroker          // for live feed pub/sub
	wal      *wal.WAL                   // durability ahead of the insert
}

func NewPostService(postRepo *repository.PostRepository, feedBroker broker.FeedBroker, wal *wal.WAL) *PostService {
	return &PostService{
		postRepo: postRepo,
		broker:   feedBroker,
		wal:      wal,
	}
}

// CreatePost persists a post authored by user. The author's username and
// role are denormalized into the post at creation time. The write order is
// WAL, broker, database: an entry that reaches the WAL survives a crash
// before the insert and is recovered by ReplayWAL.
func (s *PostService) CreatePost(user *models.User, input PostInput) (*models.Post, error) {
	if input.Content == "" {
		return nil, ErrEmptyContent
	}
	if input.PostType == "" {
		input.PostType = models.PostTypeText
	}
	if !input.PostType.Valid() {
		return nil, ErrInvalidPostType
	}

	now := time.Now().UTC()

	post := &models.Post{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Username:   user.Username,
		UserRole:   user.Role,
		Content:    input.Content,
		PostType:   input.PostType,
		ImageURL:   input.ImageURL,
		VideoURL:   input.VideoURL,
		SportsTags: models.StringList(input.SportsTags),
		CreatedAt:  now,
	}
	if post.SportsTags == nil {
		post.SportsTags = models.StringList{}
	}

	walEntry := wal.WALEntry{
		PostID:     post.ID,
		UserID:     post.UserID,
		Username:   post.Username,
		UserRole:   string(post.UserRole),
		Content:    post.Content,
		PostType:   string(post.PostType),
		ImageURL:   post.ImageURL,
		VideoURL:   post.VideoURL,
		SportsTags: post.SportsTags,
		Timestamp:  now,
	}
	if err := s.wal.Write(walEntry); err != nil {
		return nil, err
	}

	event := broker.PostEvent{
		PostID:     post.ID,
		UserID:     post.UserID,
		Username:   post.Username,
		UserRole:   string(post.UserRole),
		Content:    post.Content,
		PostType:   string(post.PostType),
		SportsTags: post.SportsTags,
		Timestamp:  now.Format(time.RFC3339),
	}
	if err := s.broker.Publish(event); err != nil {
		return nil, err
	}

	if err := s.postRepo.CreatePost(post); err != nil {
		return nil, err
	}

	logger.Log.Info("Post created",
		zap.String("post_id", post.ID),
		zap.String("user_id", post.UserID),
		zap.String("post_type", string(post.PostType)),
	)

	return post, nil
}

// GetFeed returns one page of the global feed, newest first.
func (s *PostService) GetFeed(skip, limit int) ([]models.Post, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	return s.postRepo.GetFeed(skip, limit)
}

// GetUserPosts returns every post by the given author, newest first.
func (s *PostService) GetUserPosts(userID string) ([]models.Post, error) {
	return s.postRepo.GetPostsByUserID(userID)
}

// ReplayWAL re-inserts posts whose WAL entries never reached the database,
// then truncates the replayed entries. Called once at startup.
func (s *PostService) ReplayWAL() error {
	entries, err := s.wal.ReadAll()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	posts := make([]models.Post, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		tags := models.StringList(entry.SportsTags)
		if tags == nil {
			tags = models.StringList{}
		}
		posts = append(posts, models.Post{
			ID:         entry.PostID,
			UserID:     entry.UserID,
			Username:   entry.Username,
			UserRole:   models.Role(entry.UserRole),
			Content:    entry.Content,
			PostType:   models.PostType(entry.PostType),
			ImageURL:   entry.ImageURL,
			VideoURL:   entry.VideoURL,
			SportsTags: tags,
			CreatedAt:  entry.Timestamp,
		})
		ids = append(ids, entry.PostID)
	}

	if err := s.postRepo.BatchInsert(posts); err != nil {
		return err
	}

	logger.Log.Info("WAL replay completed",
		zap.Int("replayed_count", len(posts)),
	)

	return s.wal.Cleanup(ids)
}
