package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/delordemm1/go-identity-service/internal/notification"
	"github.com/delordemm1/go-identity-service/internal/notification/templates"
)

// resetTokenTTL is the fixed validity window for password-reset tokens.
const resetTokenTTL = time.Hour

// RequestPasswordReset initiates a password reset. It never fails observably
// to the caller: an unknown email returns the same nil as a known one so the
// response cannot be used to enumerate accounts, and notification delivery
// problems are logged and swallowed — the persisted token stays valid even
// if the message never arrives.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Info("password reset requested for non-existent email", "email", email)
			return nil
		}
		s.logger.Error("failed to find user by email for password reset", "error", err)
		return ErrInternal.WithCause(err)
	}

	token, err := generateSecureToken(32)
	if err != nil {
		s.logger.Error("failed to generate secure token for password reset", "error", err)
		return ErrInternal.WithCause(err)
	}

	rt := &ResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		Used:      false,
	}
	if err := s.repo.CreateResetToken(ctx, rt); err != nil {
		s.logger.Error("failed to persist password reset token", "error", err, "user_id", user.ID)
		return ErrInternal.WithCause(err)
	}

	data := templates.PasswordResetData{
		FirstName:    deref(user.FirstName),
		Token:        token,
		ExpiresIn:    "1 hour",
		SupportEmail: s.supportEmail,
	}
	if err := notification.SendTemplate(ctx, s.notifier, templates.PasswordReset, email,
		[]notification.Channel{notification.ChannelEmail}, notification.PriorityHigh, data); err != nil {
		// Delivery failure does not invalidate the token or the operation.
		s.logger.Error("failed to send password reset email", "error", err, "user_id", user.ID)
	}

	s.logger.Info("password reset token issued", "user_id", user.ID)
	return nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
//
// The credential update runs before the token consumption on purpose: the
// two writes hit separate tables with no shared transaction, and a crash
// between them must leave the token reusable rather than the password
// half-changed. If the conditional consume then loses a race to a concurrent
// confirmation, the password write has already landed, so the anomaly is
// logged and the operation still reports success.
func (s *service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	rt, err := s.repo.FindUnusedResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same error for unknown and already-used tokens.
			return ErrInvalidResetToken
		}
		s.logger.Error("failed to look up reset token", "error", err)
		return ErrInternal.WithCause(err)
	}

	if time.Now().After(rt.ExpiresAt) {
		return ErrInvalidResetToken
	}

	newPasswordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password during reset", "error", err)
		return ErrInternal.WithCause(err)
	}

	if err := s.repo.UpdatePassword(ctx, rt.UserID, newPasswordHash); err != nil {
		s.logger.Error("failed to update password after reset", "error", err, "user_id", rt.UserID)
		return ErrInternal.WithCause(err)
	}

	if err := s.repo.ConsumeResetToken(ctx, token); err != nil {
		// The password is already updated; a consume failure here means a
		// concurrent confirmation won the conditional update or the store
		// hiccuped. Either way the caller's password is in place.
		s.logger.Warn("reset token consume failed after password update", "error", err, "user_id", rt.UserID)
	}

	s.logger.Info("user password has been reset successfully", "user_id", rt.UserID)
	return nil
}

// ChangePassword updates the password of an authenticated user after
// verifying the current one. Contact-only accounts have no password hash and
// cannot use this path.
func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("failed to find user for password change", "error", err, "user_id", userID)
		return ErrInternal.WithCause(err)
	}

	if user.PasswordHash == nil {
		return ErrNotFound.WithDetail("user has no password set")
	}

	if !s.hasher.Verify(currentPassword, *user.PasswordHash) {
		s.logger.Warn("password change attempt with wrong current password", "user_id", userID)
		return ErrInvalidCredentials
	}

	newPasswordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", "error", err)
		return ErrInternal.WithCause(err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, newPasswordHash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", userID)
		return ErrInternal.WithCause(err)
	}

	s.logger.Info("user password changed", "user_id", userID)
	return nil
}

// generateSecureToken creates a random, URL-safe string from n random bytes.
func generateSecureToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
