package identity

import (
	"time"
)

// ContactType is the channel a contact entry arrived through.
type ContactType string

const (
	ContactTypeEmail ContactType = "email"
	ContactTypePhone ContactType = "phone"
	ContactTypeOther ContactType = "other"
)

// Contact is one entry in a user's contact list. The (Type, Value) pair is
// the de-duplication key used by the identity resolver for email and phone.
type Contact struct {
	Type      ContactType `json:"type"`
	Value     string      `json:"value"`
	IsPrimary bool        `json:"isPrimary,omitempty"`
}

// User represents one account.
// Pointer fields are nullable columns: a contact-only account has no
// password hash, and email/phone are only populated when known.
type User struct {
	ID           string     `db:"id"`
	Email        *string    `db:"email"`
	Phone        *string    `db:"phone"`
	PasswordHash *string    `db:"password_hash"`
	FirstName    *string    `db:"first_name"`
	LastName     *string    `db:"last_name"`
	Name         *string    `db:"name"`
	ContactInfo  []Contact  `db:"contact_info"`
	Source       *string    `db:"source"`
	SessionID    *string    `db:"session_id"`
	IsActive     bool       `db:"is_active"`
	IsVerified   bool       `db:"is_verified"`
	LastActivity *time.Time `db:"last_activity"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// HasContact reports whether the user's contact list already holds the
// given (type, value) pair.
func (u *User) HasContact(ct ContactType, value string) bool {
	for _, c := range u.ContactInfo {
		if c.Type == ct && c.Value == value {
			return true
		}
	}
	return false
}

// ResetToken represents one outstanding password-reset grant. The token
// string itself is the identity; it is honorable at most once and only
// before ExpiresAt.
type ResetToken struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
	CreatedAt time.Time `db:"created_at"`
}

// PublicUser is the sanitized user representation returned to callers.
// It never carries the password hash.
type PublicUser struct {
	ID           string     `json:"id"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	FirstName    *string    `json:"firstName,omitempty"`
	LastName     *string    `json:"lastName,omitempty"`
	Name         *string    `json:"name,omitempty"`
	ContactInfo  []Contact  `json:"contactInfo,omitempty"`
	Source       *string    `json:"source,omitempty"`
	IsActive     bool       `json:"isActive"`
	IsVerified   bool       `json:"isVerified"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// sanitize converts a stored user into its public representation.
func sanitize(u *User) *PublicUser {
	return &PublicUser{
		ID:           u.ID,
		Email:        u.Email,
		Phone:        u.Phone,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Name:         u.Name,
		ContactInfo:  u.ContactInfo,
		Source:       u.Source,
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		LastActivity: u.LastActivity,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
