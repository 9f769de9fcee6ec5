package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/config"
	"go-portfolio-api/internal/mail"
	"go-portfolio-api/internal/repository"
	"go-portfolio-api/pkg/validator"
)

type ContactRequest struct {
	Subject string `json:"subject" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

type ContactService interface {
	// SendMessage mails the request to the contact inbox with the caller as reply-to.
	SendMessage(ctx context.Context, callerID uuid.UUID, req ContactRequest) error
}

type contactService struct {
	userRepo repository.UserRepository
	mailer   mail.Mailer
	mailCfg  config.MailConfig
	logger   zerolog.Logger
}

func NewContactService(userRepo repository.UserRepository, mailer mail.Mailer, mailCfg config.MailConfig, logger zerolog.Logger) ContactService {
	return &contactService{
		userRepo: userRepo,
		mailer:   mailer,
		mailCfg:  mailCfg,
		logger:   logger.With().Str("component", "contact-service").Logger(),
	}
}

func (s *contactService) SendMessage(ctx context.Context, callerID uuid.UUID, req ContactRequest) error {
	user, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return translateRepoErr(err)
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(validator.Fields(errs), ", "))
	}

	if s.mailCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.mailCfg.Timeout)
		defer cancel()
	}

	err = s.mailer.Send(ctx, mail.Message{
		From:    s.mailCfg.From,
		To:      s.mailCfg.To,
		ReplyTo: user.Email,
		Subject: strings.TrimSpace(req.Subject),
		Body:    req.Message,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", callerID.String()).Msg("contact message not sent")
		return fmt.Errorf("%w: %v", ErrMailNotSent, err)
	}
	return nil
}
