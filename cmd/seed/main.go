package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/khel-bhoomi/backend/internal/config"
	"github.com/khel-bhoomi/backend/internal/database"
	"github.com/khel-bhoomi/backend/internal/models"
	"github.com/khel-bhoomi/backend/internal/utils"
)

type demoAccount struct {
	username  string
	email     string
	password  string
	fullName  string
	role      models.Role
	bio       string
	interests []string
	postText  string
}

// Demo roster covering each role, for preview environments.
var demoAccounts = []demoAccount{
	{
		username:  "rahul_sharma",
		email:     "rahul@khelbhoomi.com",
		password:  "Demo123456",
		fullName:  "Rahul Sharma",
		role:      models.RoleAthlete,
		bio:       "State-level sprinter chasing the nationals",
		interests: []string{"athletics", "sprinting"},
		postText:  "Clocked a new personal best in the 100m today!",
	},
	{
		username:  "priya_scout",
		email:     "priya@khelbhoomi.com",
		password:  "Demo123456",
		fullName:  "Priya Nair",
		role:      models.RoleScout,
		bio:       "Talent scout for junior cricket academies",
		interests: []string{"cricket"},
		postText:  "Scouting trials this weekend in Pune. Come show us what you have.",
	},
	{
		username:  "amit_fan",
		email:     "amit@khelbhoomi.com",
		password:  "Demo123456",
		fullName:  "Amit Verma",
		role:      models.RoleFan,
		bio:       "Kabaddi fan since forever",
		interests: []string{"kabaddi", "hockey"},
		postText:  "What a season finale last night!",
	},
}

func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	for _, acc := range demoAccounts {
		var existing models.User
		result := database.DB.Where("username = ?", acc.username).First(&existing)
		if result.Error == nil {
			log.Println("Demo user already exists:", existing.Username)
			continue
		}

		passwordHash, err := utils.HashPassword(acc.password)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}

		user := models.User{
			ID:              uuid.New().String(),
			Username:        acc.username,
			Email:           acc.email,
			PasswordHash:    passwordHash,
			Role:            acc.role,
			FullName:        acc.fullName,
			Bio:             acc.bio,
			SportsInterests: models.StringList(acc.interests),
			Achievements:    models.StringList{},
			CreatedAt:       time.Now().UTC(),
		}

		if err := database.DB.Create(&user).Error; err != nil {
			log.Fatal("Failed to create demo user:", err)
		}

		post := models.Post{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			Username:   user.Username,
			UserRole:   user.Role,
			Content:    acc.postText,
			PostType:   models.PostTypeText,
			SportsTags: user.SportsInterests,
			CreatedAt:  time.Now().UTC(),
		}

		if err := database.DB.Create(&post).Error; err != nil {
			log.Fatal("Failed to create demo post:", err)
		}

		log.Println("Demo user created:", user.Username, "("+string(user.Role)+")")
	}
}
