package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/pkg/logger"
)

type Service interface {
	SendWelcome(ctx context.Context, email string, name string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

// Dialer is the part of *gomail.Dialer the SMTP service uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPService struct {
	dialer Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) *SMTPService {
	return NewSMTPServiceWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

func NewSMTPServiceWithDialer(dialer Dialer, from string) *SMTPService {
	return &SMTPService{dialer: dialer, from: from}
}

func (s *SMTPService) SendWelcome(ctx context.Context, email string, name string) error {
	body := fmt.Sprintf("<p>Hello %s,</p><p>Your account is ready. Create your clinic to start adding doctors and patients.</p>", name)
	return s.SendCustom(ctx, email, "Welcome to Clinic", body)
}

func (s *SMTPService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", content)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// LogService only logs outgoing mail. It is used when SMTP is not configured.
type LogService struct {
	logger *logger.Logger
}

func NewLogService(log *logger.Logger) *LogService {
	return &LogService{logger: log.With("email")}
}

func (s *LogService) SendWelcome(ctx context.Context, email string, name string) error {
	return s.SendCustom(ctx, email, "Welcome to Clinic", name)
}

func (s *LogService) SendCustom(_ context.Context, to string, subject string, _ string) error {
	s.logger.Debug("email not sent, smtp disabled", "to", to, "subject", subject)
	return nil
}

// New picks the SMTP service when a host is configured.
func New(cfg config.SMTPConfig, log *logger.Logger) Service {
	if cfg.Enabled() {
		return NewSMTPService(cfg)
	}
	return NewLogService(log)
}
