package service

import (
	"errors"

	"github.com/khel-bhoomi/backend/internal/models"
	"github.com/khel-bhoomi/backend/internal/repository"
	"github.com/khel-bhoomi/backend/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// ProfileUpdate carries the updatable profile fields. Nil means "leave
// unchanged"; the zero value (e.g. empty bio) is a real update.
type ProfileUpdate struct {
	FullName        *string
	Bio             *string
	ProfileImage    *string
	SportsInterests *[]string
}

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns the user with the given username.
func (s *UserService) GetProfile(username string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to fetch profile",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateProfile applies the provided subset of fields to the user's record
// and returns the updated record. An update that contributes no recognized
// field is rejected.
func (s *UserService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if update.FullName != nil {
		updates["full_name"] = *update.FullName
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.ProfileImage != nil {
		updates["profile_image"] = *update.ProfileImage
	}
	if update.SportsInterests != nil {
		updates["sports_interests"] = models.StringList(*update.SportsInterests)
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		logger.Log.Error("Failed to update profile",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	logger.Log.Info("Profile updated",
		zap.String("user_id", userID),
		zap.Int("field_count", len(updates)),
	)

	return user, nil
}
