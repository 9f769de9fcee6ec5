package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/model"
	"go-portfolio-api/internal/repository"
	"go-portfolio-api/pkg/jwt"
	"go-portfolio-api/pkg/validator"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	// ProvisionUser creates the user, or resets the password of an existing one.
	ProvisionUser(ctx context.Context, req ProvisionRequest) (*model.User, bool, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type ProvisionRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	logger   zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("component", "auth-service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	found, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !found.CheckPassword(password) {
		s.logger.Warn().Str("user_id", found.ID.String()).Msg("login with wrong password")
		return nil, ErrInvalidCredentials
	}

	withLikes, err := s.userRepo.FindWithLikes(ctx, found.ID)
	if err != nil {
		return nil, fmt.Errorf("load user likes: %w", err)
	}

	token, err := s.tokens.GenerateToken(found.ID, found.Email, found.Name)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResponse{Token: token, User: withLikes.ToResponse()}, nil
}

func (s *authService) ProvisionUser(ctx context.Context, req ProvisionRequest) (*model.User, bool, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, false, fmt.Errorf("%w: %s", ErrValidation, strings.Join(validator.Fields(errs), ", "))
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if err := existing.SetPassword(req.Password); err != nil {
			return nil, false, fmt.Errorf("hash password: %w", err)
		}
		if err := s.userRepo.UpdatePassword(ctx, existing.ID, existing.Password); err != nil {
			return nil, false, fmt.Errorf("update password: %w", err)
		}
		s.logger.Info().Str("user_id", existing.ID.String()).Msg("password reset")
		return existing, false, nil

	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	user := &model.User{Name: strings.TrimSpace(req.Name), Email: req.Email}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user created")
	return user, true, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindWithLikes(ctx, userID)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
