package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/config"
	"go-portfolio-api/internal/logger"
	"go-portfolio-api/internal/repository"
	"go-portfolio-api/internal/service"
	"go-portfolio-api/pkg/database"
	"go-portfolio-api/pkg/jwt"
)

// create-user seeds an account (or resets its password) and prints a bearer token.
func main() {
	email := flag.String("email", "", "user email (required)")
	name := flag.String("name", "", "display name, defaults to the email")
	password := flag.String("password", "", "password, at least 6 characters (required)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(cfg.Logger)

	if *name == "" {
		*name = *email
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(repository.NewUserRepo(db), tokens, log)

	user, created, err := authService.ProvisionUser(ctx, service.ProvisionRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to provision user")
	}

	token, err := tokens.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate token")
	}

	action := "Password reset for"
	if created {
		action = "Created"
	}
	fmt.Printf("%s %s (%s)\n", action, user.Email, user.ID)
	fmt.Printf("Bearer token (valid %s):\n%s\n", cfg.Auth.TokenTTL, token)
}
