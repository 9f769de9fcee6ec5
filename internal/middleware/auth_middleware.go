package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/repository"
	"go-portfolio-api/pkg/jwt"
)

const (
	userIDKey   = "user_id"
	tokenCookie = "token"
)

// RequireAuth validates the caller's token and sets the user ID for downstream handlers.
// The token comes from "Authorization: Bearer <token>" or the "token" cookie.
func RequireAuth(tokens *jwt.Manager, userRepo repository.UserRepository, logger zerolog.Logger) fiber.Handler {
	logger = logger.With().Str("component", "auth-middleware").Logger()

	return func(c *fiber.Ctx) error {
		tokenString, problem := extractToken(c)
		if problem != "" {
			return unauthorized(c, problem)
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return unauthorized(c, "Not authorized, please login")
		}

		// The account may have been removed after the token was issued.
		if _, err := userRepo.FindByID(c.UserContext(), claims.UserID); err != nil {
			if !errors.Is(err, repository.ErrUserNotFound) {
				logger.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("user lookup failed")
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
			}
			return unauthorized(c, "User not found")
		}

		c.Locals(userIDKey, claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)

		return c.Next()
	}
}

// UserID returns the authenticated caller set by RequireAuth.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// extractToken returns the raw token, or a client-facing reason when there is none.
func extractToken(c *fiber.Ctx) (string, string) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", "Invalid authorization format. Use: Bearer <token>"
		}
		return parts[1], ""
	}
	if cookie := c.Cookies(tokenCookie); cookie != "" {
		return cookie, ""
	}
	return "", "Not authorized, please login"
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": message})
}
