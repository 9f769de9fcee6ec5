package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/middleware"
	"go-portfolio-api/internal/service"
)

type UserHandler struct {
	authService service.AuthService
	logger      zerolog.Logger
}

func NewUserHandler(authService service.AuthService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		logger:      logger.With().Str("component", "user-handler").Logger(),
	}
}

// Me returns the caller with the IDs of the products they like
// GET /api/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	callerID, _ := middleware.UserID(c)

	user, err := h.authService.Me(c.UserContext(), callerID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user.ToResponse())
}
