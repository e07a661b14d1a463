package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"lightbox/internal/lib/logger/sl"
)

type Message struct {
	To      []string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPSender struct {
	log      *slog.Logger
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(log *slog.Logger, host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		log:      log,
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send блокирует до ответа relay; net/smtp не принимает context, поэтому проверяем его только до отправки
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	const op = "mailer.SMTPSender.Send"

	log := s.log.With(
		slog.String("op", op),
		slog.String("subject", msg.Subject),
	)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.from, msg.To, buildMessage(s.from, msg, time.Now())); err != nil {
		log.Error("failed to send mail", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("mail sent", slog.Int("recipients", len(msg.To)))

	return nil
}

func buildMessage(from string, msg Message, now time.Time) []byte {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))

	return []byte(b.String())
}

// sanitizeHeader не дает пользовательскому вводу добавить заголовки
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// LogSender пишет письма в лог; используется, когда SMTP не настроен
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (l *LogSender) Send(_ context.Context, msg Message) error {
	l.log.Info("mail (smtp disabled)",
		slog.String("op", "mailer.LogSender.Send"),
		slog.Any("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
