package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	tokenTTL    time.Duration
	logger      zerolog.Logger
}

func NewAuthHandler(authService service.AuthService, tokenTTL time.Duration, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokenTTL:    tokenTTL,
		logger:      logger.With().Str("component", "auth-handler").Logger(),
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication and also sets the token cookie
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	if req.Email == "" || req.Password == "" {
		return message(c, fiber.StatusBadRequest, "Email and password are required")
	}

	response, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    response.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(response)
}

// Logout clears the token cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie("token")
	return message(c, fiber.StatusOK, "Successfully logged out")
}
