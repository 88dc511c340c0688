package services

import (
	"context"
	"testing"
	"time"

	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newResetFixture(t *testing.T) (*PasswordResetService, *stubUserStore, *stubMailer, *models.User) {
	t.Helper()

	hash, err := HashPassword("old-secret")
	require.NoError(t, err)
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Username:     "dev@example.com",
		PasswordHash: hash,
		Roles:        []string{models.RoleUser},
	}
	store := newStubUserStore(user)
	mail := &stubMailer{}
	svc := NewPasswordResetService(store, mail, "https://feedback.example.com/reset", observability.NewNopLogger())
	return svc, store, mail, user
}

func TestResetRequest_StoresKeyAndMails(t *testing.T) {
	svc, store, mail, user := newResetFixture(t)

	require.NoError(t, svc.Request(context.Background(), "dev@example.com"))

	require.Len(t, store.resets[user.ID], 1)
	req := store.resets[user.ID][0]
	assert.NotEmpty(t, req.Key)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), req.ExpiredAt, time.Minute)

	require.Len(t, mail.sentTo, 1)
	assert.Equal(t, "dev@example.com", mail.sentTo[0])
	assert.Contains(t, mail.sentURLs[0], "https://feedback.example.com/reset/")
	assert.Contains(t, mail.sentURLs[0], req.Key)
}

func TestResetRequest_UnknownUserIsSilent(t *testing.T) {
	svc, _, mail, _ := newResetFixture(t)

	assert.NoError(t, svc.Request(context.Background(), "nobody@example.com"))
	assert.Empty(t, mail.sentTo)
}

func TestResetRequest_DeletedUserIsSilent(t *testing.T) {
	svc, store, mail, user := newResetFixture(t)
	user.IsDeleted = true

	assert.NoError(t, svc.Request(context.Background(), "dev@example.com"))
	assert.Empty(t, mail.sentTo)
	assert.Empty(t, store.resets[user.ID])
}

func TestResetRequest_MailFailureIsSwallowed(t *testing.T) {
	svc, store, mail, user := newResetFixture(t)
	mail.sendErr = contextutils.ErrStorageFailure

	assert.NoError(t, svc.Request(context.Background(), "dev@example.com"))
	// The key is already recorded; only delivery failed.
	assert.Len(t, store.resets[user.ID], 1)
}

func TestResetComplete_Success(t *testing.T) {
	svc, store, _, user := newResetFixture(t)
	user.RequestReset = []models.ResetRequest{{
		Key:       "valid-key",
		ExpiredAt: time.Now().Add(time.Hour),
	}}
	oldHash := user.PasswordHash

	err := svc.Complete(context.Background(), "dev@example.com", "valid-key", "new-secret", "new-secret")
	require.NoError(t, err)

	assert.NotEqual(t, oldHash, store.passwords[user.ID])
	// The used request is cleared with the password write.
	assert.Empty(t, user.RequestReset)
}

func TestResetComplete_Failures(t *testing.T) {
	svc, _, _, user := newResetFixture(t)
	user.RequestReset = []models.ResetRequest{
		{Key: "valid-key", ExpiredAt: time.Now().Add(time.Hour)},
		{Key: "expired-key", ExpiredAt: time.Now().Add(-time.Minute)},
	}

	tests := []struct {
		name     string
		username string
		key      string
		password string
		confirm  string
	}{
		{"mismatched confirmation", "dev@example.com", "valid-key", "new-secret", "other"},
		{"unknown user", "nobody@example.com", "valid-key", "new-secret", "new-secret"},
		{"wrong key", "dev@example.com", "bad-key", "new-secret", "new-secret"},
		{"expired key", "dev@example.com", "expired-key", "new-secret", "new-secret"},
		{"policy violation", "dev@example.com", "valid-key", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Complete(context.Background(), tt.username, tt.key, tt.password, tt.confirm)
			assert.True(t, contextutils.IsError(err, contextutils.ErrValidationFailed))
		})
	}
}
