package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/middleware"
	"go-portfolio-api/internal/service"
)

type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

func NewContactHandler(s service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: s,
		logger:  logger.With().Str("component", "contact-handler").Logger(),
	}
}

// ContactUs mails a message from the caller to the site owner
// POST /api/contact
func (h *ContactHandler) ContactUs(c *fiber.Ctx) error {
	callerID, _ := middleware.UserID(c)

	var req service.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.service.SendMessage(c.UserContext(), callerID, req); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Email Sent"})
}
