package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/logger"
	"go-portfolio-api/internal/service"
)

const internalErrorMessage = "Internal server error"

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{service.ErrValidation, fiber.StatusBadRequest, "Please fill in all fields"},
	{service.ErrImageTooLarge, fiber.StatusBadRequest, "Image exceeds the upload size limit"},
	{service.ErrNotAuthorized, fiber.StatusUnauthorized, "User not authorized"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid email or password"},
	{service.ErrProductNotFound, fiber.StatusNotFound, "Product not found"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "User not found"},
	{service.ErrImageUpload, fiber.StatusInternalServerError, "Image could not be uploaded"},
	{service.ErrMailNotSent, fiber.StatusInternalServerError, "Email not sent, please try again"},
}

// respondError writes the status and message for a service error.
// Anything unrecognised is logged and answered with a generic 500.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status >= fiber.StatusInternalServerError {
				logger.FromCtx(c, log).Error().Err(err).Msg(m.message)
			}
			return c.Status(m.status).JSON(fiber.Map{"message": m.message})
		}
	}

	logger.FromCtx(c, log).Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": internalErrorMessage})
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// ErrorHandler renders errors that escape handlers, including recovered panics,
// in the same {"message"} shape.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return message(c, fe.Code, fe.Message)
		}
		logger.FromCtx(c, log).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return message(c, fiber.StatusInternalServerError, internalErrorMessage)
	}
}
