package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/khel-bhoomi/backend/internal/models"
	"github.com/khel-bhoomi/backend/internal/repository"
	"github.com/khel-bhoomi/backend/internal/utils"
	"github.com/khel-bhoomi/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDuplicateAccount   = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrValidation         = errors.New("validation error")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Register creates an account and returns it with a fresh token.
// Uniqueness is a check-then-insert sequence; two concurrent registrations
// with the same username can both pass the check, in which case the unique
// index rejects the second insert.
func (s *AuthService) Register(username, email, password, fullName string, role models.Role) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
		zap.String("email", email),
		zap.String("role", string(role)),
	)

	if err := s.validateRegisterInput(username, email, password, role); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}

	existingUser, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if existingUser != nil {
		logger.Log.Warn("Username already exists",
			zap.String("username", username),
		)
		return nil, "", ErrDuplicateAccount
	}

	existingUser, err = s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if existingUser != nil {
		logger.Log.Warn("Email already exists",
			zap.String("email", email),
		)
		return nil, "", ErrDuplicateAccount
	}

	hashStart := time.Now()
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, "", err
	}
	hashDuration := time.Since(hashStart)

	user := &models.User{
		ID:              uuid.New().String(),
		Username:        username,
		Email:           email,
		PasswordHash:    hashedPassword,
		Role:            role,
		FullName:        fullName,
		SportsInterests: models.StringList{},
		Achievements:    models.StringList{},
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		// A registration that lost the check-then-insert race lands here:
		// the unique index rejects the second row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("Registration lost uniqueness race",
				zap.String("username", username),
			)
			return nil, "", ErrDuplicateAccount
		}
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}

	token, err := utils.GenerateToken(user.Username, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID),
		zap.String("username", username),
		zap.String("role", string(role)),
		zap.Duration("hash_duration", hashDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// Login authenticates by username. Unknown username and wrong password take
// the same ErrInvalidCredentials exit so callers cannot enumerate accounts.
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user login",
		zap.String("username", username),
	)

	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to get user by username",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("username", username),
		)
		return nil, "", ErrInvalidCredentials
	}

	verifyStart := time.Now()
	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// Malformed stored hash counts as a credential mismatch, not a
		// server error.
		logger.Log.Warn("Password verification failed on stored hash",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", ErrInvalidCredentials
	}
	verifyDuration := time.Since(verifyStart)

	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("username", username),
			zap.String("user_id", user.ID),
		)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.Username, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Duration("password_verify_duration", verifyDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

func (s *AuthService) validateRegisterInput(username, email, password string, role models.Role) error {
	if len(username) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters", ErrValidation)
	}
	if len(username) > 50 {
		return fmt.Errorf("%w: username must be at most 50 characters", ErrValidation)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(email) > 100 {
		return fmt.Errorf("%w: email too long", ErrValidation)
	}

	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if len(password) > 128 {
		return fmt.Errorf("%w: password too long", ErrValidation)
	}

	if !role.Valid() {
		return fmt.Errorf("%w: role must be one of: athlete, scout, fan", ErrValidation)
	}

	return nil
}
