package identity

import (
	"context"
	"errors"

	"github.com/delordemm1/go-identity-service/internal/notification"
	"github.com/delordemm1/go-identity-service/internal/notification/templates"
	"github.com/google/uuid"
)

// Register handles the business logic for creating a new password-based user.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// Check if a user with the given email already exists
	_, err := s.repo.FindByEmail(ctx, input.Email)
	if err == nil {
		// A user was found, so the email is already taken.
		s.logger.Warn("registration attempt with existing email", "email", input.Email)
		return nil, ErrEmailExists
	}
	// We expect a "not found" error, so if it's any other error, we return it.
	if !errors.Is(err, ErrNotFound) {
		s.logger.Error("failed to check email for registration", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	// Hash the password for security
	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	newUserID, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	newUser := &User{
		ID:           newUserID.String(),
		Email:        &input.Email,
		PasswordHash: &hashedPassword,
		FirstName:    optional(input.FirstName),
		LastName:     optional(input.LastName),
		Phone:        optional(input.Phone),
		IsActive:     true,
		IsVerified:   false, // informational only, nothing in this core enforces it
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		s.logger.Error("failed to create user", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	tokens, err := s.issueTokenPair(newUser.ID)
	if err != nil {
		s.logger.Error("failed to issue tokens after registration", "error", err, "user_id", newUser.ID)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("user registered successfully", "user_id", newUser.ID)

	// Best-effort welcome mail; delivery problems never fail the registration.
	s.sendWelcome(ctx, newUser)

	return &AuthResult{User: sanitize(newUser), Tokens: tokens}, nil
}

// Login handles the business logic for authenticating a password-based user.
// Unknown email and wrong password collapse into one generic failure; an
// inactive account is reported distinctly, and only after the password
// checked out.
func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Use a generic error to avoid telling attackers that the email exists.
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to find user by email", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	if user.PasswordHash == nil || !s.hasher.Verify(password, *user.PasswordHash) {
		s.logger.Warn("login attempt with invalid password", "email", email)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("login attempt for inactive user", "user_id", user.ID)
		return nil, ErrAccountInactive
	}

	tokens, err := s.issueTokenPair(user.ID)
	if err != nil {
		s.logger.Error("failed to issue tokens", "error", err, "user_id", user.ID)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("user logged in successfully", "user_id", user.ID)

	return &AuthResult{User: sanitize(user), Tokens: tokens}, nil
}

// ValidateToken verifies an access token and resolves its subject. Signature
// or expiry failures, a vanished subject, and an inactive account all
// normalize to the same unauthorized error.
func (s *service) ValidateToken(ctx context.Context, token string) (*PublicUser, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Warn("token validation failed", "error", err)
		return nil, ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("failed to find user for token validation", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	return sanitize(user), nil
}

// RefreshToken verifies a refresh token and mints a brand-new token pair.
// The old refresh token is NOT revoked: it stays independently valid until
// its own expiry. There is no server-side revocation list in this design.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.tokens.Verify(refreshToken)
	if err != nil {
		s.logger.Warn("refresh token validation failed", "error", err)
		return nil, ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("failed to find user for token refresh", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	tokens, err := s.issueTokenPair(user.ID)
	if err != nil {
		s.logger.Error("failed to issue tokens on refresh", "error", err, "user_id", user.ID)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("token refreshed successfully", "user_id", user.ID)

	return &AuthResult{User: sanitize(user), Tokens: tokens}, nil
}

func (s *service) issueTokenPair(userID string) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) sendWelcome(ctx context.Context, user *User) {
	if user.Email == nil {
		return
	}
	data := templates.WelcomeData{
		FirstName:    deref(user.FirstName),
		SupportEmail: s.supportEmail,
	}
	if err := notification.SendTemplate(ctx, s.notifier, templates.Welcome, *user.Email,
		[]notification.Channel{notification.ChannelEmail}, notification.PriorityLow, data); err != nil {
		s.logger.Error("failed to send welcome email", "error", err, "user_id", user.ID)
	}
}

// optional maps an empty string to a NULL column value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
