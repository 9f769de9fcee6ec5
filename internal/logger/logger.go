package logger

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/config"
)

// RequestIDKey is the local the requestid middleware stores the ID under.
const RequestIDKey = "requestid"

// New creates a logger based on the configuration.
func New(cfg config.LoggerConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg config.LoggerConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Middleware logs each request once the handler chain returns. Install it
// after requestid.New() so the ID is available.
func Middleware(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID, _ := c.Locals(RequestIDKey).(string)

		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			// The error handler has not run yet, so derive the status it will write.
			status = fiber.StatusInternalServerError
			if fe, ok := chainErr.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		event := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error().Err(chainErr)
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", c.IP()).
			Msg("http request")

		return chainErr
	}
}

// FromCtx returns a child logger carrying the request ID, if any.
func FromCtx(c *fiber.Ctx, log zerolog.Logger) *zerolog.Logger {
	if id, ok := c.Locals(RequestIDKey).(string); ok && id != "" {
		child := log.With().Str("request_id", id).Logger()
		return &child
	}
	return &log
}
