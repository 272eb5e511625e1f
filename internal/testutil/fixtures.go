package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/khel-bhoomi/backend/internal/models"
	"github.com/khel-bhoomi/backend/internal/utils"
)

// CreateTestUser creates a user record with a properly hashed password.
func CreateTestUser(username, email, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:              uuid.New().String(),
		Username:        username,
		Email:           email,
		PasswordHash:    hashedPassword,
		Role:            role,
		FullName:        "Test " + username,
		SportsInterests: models.StringList{},
		Achievements:    models.StringList{},
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// CreateTestPost creates a post authored by user.
func CreateTestPost(user *models.User, content string, postType models.PostType) *models.Post {
	return &models.Post{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Username:   user.Username,
		UserRole:   user.Role,
		Content:    content,
		PostType:   postType,
		SportsTags: models.StringList{},
		CreatedAt:  time.Now().UTC(),
	}
}

// DefaultTestUser returns a default athlete account.
func DefaultTestUser() (*models.User, error) {
	return CreateTestUser("testathlete", "athlete@example.com", "Test123456", models.RoleAthlete)
}
