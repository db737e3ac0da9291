package main

import (
	"context"
	"log"
	"time"

	"neurobridge-be/internal/config"
	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/model"
	"neurobridge-be/internal/repository/implementation"
	"neurobridge-be/internal/repository/specification"
	"neurobridge-be/internal/service"
	"neurobridge-be/pkg/database"

	"github.com/google/uuid"
)

// Seeds a development user and prints a signed token for it. Production
// tokens come from the account service; this is for local testing of the
// stream gateway only.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	userRepo := implementation.NewUserRepository(db)

	username := "dev"
	user, err := userRepo.FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		log.Fatalf("Error: Failed to look up seed user: %v", err)
	}
	if user == nil {
		seed := model.User{
			Id:        uuid.New(),
			Username:  username,
			Email:     "dev@localhost",
			CreatedAt: time.Now().UTC(),
		}
		if err := db.WithContext(ctx).Create(&seed).Error; err != nil {
			log.Fatalf("Error: Failed to create seed user: %v", err)
		}
		user = &entity.User{
			Id:        seed.Id,
			Username:  seed.Username,
			Email:     seed.Email,
			CreatedAt: seed.CreatedAt,
		}
		log.Printf("Created seed user %s (%s)", user.Username, user.Id)
	} else {
		log.Printf("Seed user %s already exists (%s)", user.Username, user.Id)
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, userRepo)
	token, err := tokens.Issue(user)
	if err != nil {
		log.Fatalf("Error: Failed to issue token: %v", err)
	}

	log.Printf("Token (valid %s):\n%s", cfg.Auth.TokenTTL, token)
	log.Printf("Connect with: ws://localhost:%s/api/ws?token=%s", cfg.App.Port, token)
}
