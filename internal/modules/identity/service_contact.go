package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RegisterContact resolves a contact submission to an identity: either an
// existing user found through one of the submitted entries, or a brand-new
// contact-only account.
//
// The resolver scans the submitted entries in order and the FIRST match
// wins. Entries are not cross-checked for conflicting matches: if two
// entries would resolve to two different existing users, only the
// earliest-ordered match is used and the rest are merged into it.
func (s *service) RegisterContact(ctx context.Context, input ContactRegisterInput) (*ContactAuthResult, error) {
	if len(input.Contacts) == 0 {
		return nil, ErrContactRequired
	}

	existing, err := s.resolveContacts(ctx, input.Contacts)
	if err != nil {
		return nil, err
	}

	var (
		user *User
		tag  ResolutionTag
	)
	if existing != nil {
		user, err = s.mergeContacts(ctx, existing, input)
		if err != nil {
			return nil, err
		}
		tag = ResolutionExistingUserUpdated
		s.logger.Info("contact registration matched existing user", "user_id", user.ID)
	} else {
		user, err = s.createContactUser(ctx, input)
		if err != nil {
			return nil, err
		}
		tag = ResolutionNewUserCreated
		s.logger.Info("contact registration created new user", "user_id", user.ID)
	}

	sessionID, err := s.sessions.CreateAuthSession(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to create contact session", "error", err, "user_id", user.ID)
		return nil, ErrInternal.WithCause(err)
	}

	return &ContactAuthResult{User: sanitize(user), SessionID: sessionID, Result: tag}, nil
}

// LoginContact authenticates an existing contact-based identity by its
// (type, value) pair and mints a fresh opaque session. It never issues a
// signed token.
func (s *service) LoginContact(ctx context.Context, contactType ContactType, value string) (*ContactAuthResult, error) {
	user, err := s.lookupByContact(ctx, contactType, value)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up contact for login", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	if !user.IsActive {
		s.logger.Warn("contact login attempt for inactive user", "user_id", user.ID)
		return nil, ErrAccountInactive
	}

	now := time.Now()
	user.LastActivity = &now
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error("failed to update last activity", "error", err, "user_id", user.ID)
		return nil, ErrInternal.WithCause(err)
	}

	sessionID, err := s.sessions.CreateAuthSession(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to create contact session", "error", err, "user_id", user.ID)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("contact login succeeded", "user_id", user.ID)

	return &ContactAuthResult{User: sanitize(user), SessionID: sessionID, Result: ResolutionExistingUserUpdated}, nil
}

// resolveContacts scans the submitted entries in order and returns the first
// existing user any of them matches, or nil when none match. Lookups are
// sequential because a hit short-circuits the rest.
func (s *service) resolveContacts(ctx context.Context, contacts []Contact) (*User, error) {
	for _, c := range contacts {
		user, err := s.lookupByContact(ctx, c.Type, c.Value)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			s.logger.Error("contact lookup failed during resolution", "error", err, "type", string(c.Type))
			return nil, ErrInternal.WithCause(err)
		}
		return user, nil
	}
	return nil, nil
}

// lookupByContact routes a (type, value) pair to its lookup path: email and
// phone have dedicated columns, everything else goes through jsonb
// containment on the contact list.
func (s *service) lookupByContact(ctx context.Context, contactType ContactType, value string) (*User, error) {
	switch contactType {
	case ContactTypeEmail:
		return s.repo.FindByEmail(ctx, value)
	case ContactTypePhone:
		return s.repo.FindByPhone(ctx, value)
	default:
		return s.repo.FindByContact(ctx, contactType, value)
	}
}

// mergeContacts reconciles a submission into an existing user: unseen
// (type, value) pairs are appended in submission order, and metadata is only
// overwritten by non-empty values. Existing entries are never reordered or
// demoted, so a primary flag on a new entry leaves the current primary alone.
func (s *service) mergeContacts(ctx context.Context, user *User, input ContactRegisterInput) (*User, error) {
	for _, c := range input.Contacts {
		if !user.HasContact(c.Type, c.Value) {
			user.ContactInfo = append(user.ContactInfo, c)
		}
	}

	if input.Name != "" {
		user.Name = &input.Name
	}
	if input.Source != "" {
		user.Source = &input.Source
	}
	if input.SessionID != "" {
		user.SessionID = &input.SessionID
	}

	now := time.Now()
	user.LastActivity = &now

	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error("failed to persist merged user", "error", err, "user_id", user.ID)
		return nil, ErrInternal.WithCause(err)
	}
	return user, nil
}

// createContactUser creates a password-less account from a submission that
// matched nobody. The primary contact (flagged isPrimary, else the first
// entry) populates the legacy email/phone columns for backward-compatible
// lookups.
func (s *service) createContactUser(ctx context.Context, input ContactRegisterInput) (*User, error) {
	newUserID, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	primary := input.Contacts[0]
	for _, c := range input.Contacts {
		if c.IsPrimary {
			primary = c
			break
		}
	}

	now := time.Now()
	user := &User{
		ID:           newUserID.String(),
		Name:         optional(input.Name),
		ContactInfo:  input.Contacts,
		Source:       optional(input.Source),
		SessionID:    optional(input.SessionID),
		IsActive:     true,
		IsVerified:   false,
		LastActivity: &now,
	}
	switch primary.Type {
	case ContactTypeEmail:
		user.Email = &primary.Value
	case ContactTypePhone:
		user.Phone = &primary.Value
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error("failed to create contact user", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return user, nil
}
