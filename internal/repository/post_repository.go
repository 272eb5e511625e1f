package repository

import (
	"github.com/khel-bhoomi/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetFeed retrieves a page of posts, newest first.
func (r *PostRepository) GetFeed(skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&posts).Error

	return posts, err
}

// GetPostsByUserID retrieves all posts by one author, newest first.
func (r *PostRepository) GetPostsByUserID(userID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error

	return posts, err
}

// BatchInsert bulk inserts posts, skipping IDs that already exist.
// WAL replay runs through here, so inserts must be idempotent.
func (r *PostRepository) BatchInsert(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(posts, 500).Error
}
