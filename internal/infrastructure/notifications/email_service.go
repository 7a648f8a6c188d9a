package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/you/identitysvc/domain"
)

// SMTPServiceImpl implements domain.EmailService over plain SMTP.
type SMTPServiceImpl struct {
	host   string
	port   int
	from   string
	logger *slog.Logger
}

// NewEmailService creates a new SMTP email service. With no host
// configured the service logs mail instead of sending it.
func NewEmailService(host string, port int, from string, logger *slog.Logger) domain.EmailService {
	return &SMTPServiceImpl{host: host, port: port, from: from, logger: logger}
}

// SendWelcomeEmail implements domain.EmailService.
func (s *SMTPServiceImpl) SendWelcomeEmail(ctx context.Context, user *domain.User) error {
	body := fmt.Sprintf("Hello %s,\r\n\r\nYour account is ready.\r\n", user.Name)
	return s.send(ctx, user.Email.String(), "Welcome", body)
}

// SendPasswordResetEmail implements domain.EmailService.
func (s *SMTPServiceImpl) SendPasswordResetEmail(ctx context.Context, user *domain.User, token string) error {
	body := fmt.Sprintf("Hello %s,\r\n\r\nUse this token to reset your password: %s\r\n", user.Name, token)
	return s.send(ctx, user.Email.String(), "Password reset", body)
}

// SendVerificationEmail implements domain.EmailService.
func (s *SMTPServiceImpl) SendVerificationEmail(ctx context.Context, user *domain.User, token string) error {
	body := fmt.Sprintf("Hello %s,\r\n\r\nUse this token to verify your address: %s\r\n", user.Name, token)
	return s.send(ctx, user.Email.String(), "Verify your email", body)
}

func (s *SMTPServiceImpl) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// No SMTP host configured, log instead of sending.
	if s.host == "" {
		s.logger.Info("mock email", "to", to, "subject", subject)
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
