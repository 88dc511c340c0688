// Package mailer sends outbound mail for the feedback application. The only
// mail the application sends is the password-reset link.
package mailer

import (
	"context"
	"fmt"

	"feedbackapp/internal/config"
	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	gomail "gopkg.in/mail.v2"
)

// Mailer defines the interface for email sending functionality
type Mailer interface {
	// SendPasswordReset sends the password-reset link to the user.
	SendPasswordReset(ctx context.Context, user *models.User, resetURL string) error

	// IsEnabled returns whether email functionality is enabled
	IsEnabled() bool
}

// NewMailer returns an SMTP mailer, or a disabled no-op mailer when mail is
// not configured.
func NewMailer(cfg *config.MailConfig, logger *observability.Logger) Mailer {
	if cfg == nil || !cfg.Enabled {
		return &disabledMailer{logger: logger}
	}
	return &smtpMailer{cfg: cfg, logger: logger}
}

type smtpMailer struct {
	cfg    *config.MailConfig
	logger *observability.Logger
}

func (m *smtpMailer) IsEnabled() bool { return true }

func (m *smtpMailer) SendPasswordReset(ctx context.Context, user *models.User, resetURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", user.Username)
	msg.SetHeader("Subject", "Feedback: Reset Password")
	msg.SetBody("text/html", passwordResetBody(user.DisplayName(), resetURL))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return contextutils.WrapError(err, "failed to send password reset mail")
	}

	m.logger.Info(ctx, "Password reset mail sent", map[string]interface{}{
		"user_id": user.ID.Hex(),
	})
	return nil
}

func passwordResetBody(name, resetURL string) string {
	return fmt.Sprintf(`<div>
<p><b>Hello %s,</b><br>
You recently requested to reset your password for your account. Use the link
below to reset it. <b>This URL is only valid for the next 2 hours.</b></p>
<p><a href="%s">Reset your password</a></p>
<p>If you did not request a password reset, please ignore this email.</p>
</div>`, name, resetURL)
}

// disabledMailer drops all mail. Used when SMTP is not configured, for
// example in development where the reset key lands in the log instead.
type disabledMailer struct {
	logger *observability.Logger
}

func (m *disabledMailer) IsEnabled() bool { return false }

func (m *disabledMailer) SendPasswordReset(ctx context.Context, user *models.User, resetURL string) error {
	m.logger.Info(ctx, "Mail disabled, password reset link not sent", map[string]interface{}{
		"user_id":   user.ID.Hex(),
		"reset_url": resetURL,
	})
	return nil
}
