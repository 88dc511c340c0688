package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services/mailer"
	contextutils "feedbackapp/internal/utils"

	"github.com/google/uuid"
)

const resetKeyTTL = 2 * time.Hour

// PasswordResetService issues and redeems password reset keys. Both sides of
// the flow are deliberately quiet about whether an account exists.
type PasswordResetService struct {
	users   UserStore
	mail    mailer.Mailer
	baseURL string
	logger  *observability.Logger
}

// NewPasswordResetService creates a new PasswordResetService instance.
// baseURL is the frontend page the mailed link points at.
func NewPasswordResetService(users UserStore, mail mailer.Mailer, baseURL string, logger *observability.Logger) *PasswordResetService {
	if users == nil {
		panic("NewPasswordResetService: users store is nil")
	}
	if mail == nil {
		panic("NewPasswordResetService: mailer is nil")
	}
	if logger == nil {
		panic("NewPasswordResetService: logger is nil")
	}
	return &PasswordResetService{
		users:   users,
		mail:    mail,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Request records a reset key for the account and mails it out. Unknown and
// soft-deleted accounts return nil as well, so the endpoint cannot be used to
// enumerate usernames. Mail delivery failures are logged but not surfaced.
func (s *PasswordResetService) Request(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if contextutils.IsError(err, contextutils.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if user.IsDeleted {
		return nil
	}

	req := models.ResetRequest{
		Key:       uuid.NewString(),
		ExpiredAt: time.Now().Add(resetKeyTTL),
	}
	if err := s.users.AddResetRequest(ctx, user.ID, req); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/%s/%s", s.baseURL, url.PathEscape(user.Username), req.Key)
	if err := s.mail.SendPasswordReset(ctx, user, resetURL); err != nil {
		s.logger.Error(ctx, "Failed to send password reset mail", err, map[string]interface{}{
			"user_id": user.ID.Hex(),
		})
	}
	return nil
}

// Complete redeems a reset key and sets a new password. Every failure mode
// except a policy violation reports the same generic message.
func (s *PasswordResetService) Complete(ctx context.Context, username, key, password, confirm string) error {
	if password != confirm {
		return validationError("passwords do not match")
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if contextutils.IsError(err, contextutils.ErrRecordNotFound) {
			return validationError("reset key is invalid or expired")
		}
		return err
	}
	if user.IsDeleted || !hasValidResetKey(user, key) {
		return validationError("reset key is invalid or expired")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info(ctx, "Password reset completed", map[string]interface{}{
		"user_id": user.ID.Hex(),
	})
	return nil
}

func hasValidResetKey(user *models.User, key string) bool {
	if key == "" {
		return false
	}
	now := time.Now()
	for _, req := range user.RequestReset {
		if req.Key == key && now.Before(req.ExpiredAt) {
			return true
		}
	}
	return false
}
