package models

import (
	"time"
)

type PostType string

const (
	PostTypeText        PostType = "text"
	PostTypeImage       PostType = "image"
	PostTypeVideo       PostType = "video"
	PostTypeAchievement PostType = "achievement"
	PostTypeNews        PostType = "news"
)

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeText, PostTypeImage, PostTypeVideo, PostTypeAchievement, PostTypeNews:
		return true
	}
	return false
}

// Post is a feed entry. Username and UserRole are copied from the author at
// creation time and are not updated if the author later changes their profile.
type Post struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Username   string     `gorm:"type:varchar(50);not null" json:"username"`
	UserRole   Role       `gorm:"type:varchar(20);not null" json:"user_role"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	PostType   PostType   `gorm:"type:varchar(20);not null" json:"post_type"`
	ImageURL   *string    `gorm:"type:text" json:"image_url"`
	VideoURL   *string    `gorm:"type:text" json:"video_url"`
	SportsTags StringList `gorm:"type:text" json:"sports_tags"`
	Likes      int        `gorm:"not null;default:0" json:"likes"`
	Comments   int        `gorm:"not null;default:0" json:"comments"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
