package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/mailer"
	"lightbox/internal/repository"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
)

var ErrEmptyMessage = errors.New("contact message is empty")

type ContactService struct {
	log        *slog.Logger
	repo       repository.ContactRepository
	mail       mailer.Sender
	ownerEmail string
}

func NewContactService(log *slog.Logger, repo repository.ContactRepository, mail mailer.Sender, ownerEmail string) *ContactService {
	return &ContactService{
		log:        log,
		repo:       repo,
		mail:       mail,
		ownerEmail: ownerEmail,
	}
}

// Submit сохраняет обращение и уведомляет владельца сайта.
// Ошибка отправки письма только логируется.
func (s *ContactService) Submit(ctx context.Context, req dto.ContactRequest) (uuid.UUID, error) {
	const op = "services.ContactService.Submit"

	log := s.log.With(slog.String("op", op))

	msg := models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmptyMessage)
	}

	id, err := s.repo.SaveContactMessage(ctx, msg)
	if err != nil {
		log.Error("failed to save contact message", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("contact message saved", slog.String("id", id.String()))

	if s.ownerEmail == "" {
		return id, nil
	}

	if err := s.mail.Send(ctx, notification(s.ownerEmail, msg)); err != nil {
		log.Error("failed to notify owner", sl.Err(err))
	}

	return id, nil
}

func notification(to string, m models.ContactMessage) mailer.Message {
	subject := m.Subject
	if subject == "" {
		subject = "New inquiry"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\n", m.Name, m.Email)
	if m.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", m.Phone)
	}
	b.WriteString("\n" + m.Message + "\n")

	return mailer.Message{
		To:      []string{to},
		Subject: "Contact form: " + subject,
		Body:    b.String(),
	}
}
