package identity

import (
	"context"
	"log/slog"

	"github.com/delordemm1/go-identity-service/internal/notification"
	"github.com/delordemm1/go-identity-service/internal/session"
)

// TokenPair bundles the access and refresh credentials minted together for
// password-based flows.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is the outcome of a password-based register, login, or refresh.
type AuthResult struct {
	User   *PublicUser
	Tokens TokenPair
}

// ResolutionTag tells a contact-registration caller whether the submission
// matched an existing account or created a new one.
type ResolutionTag string

const (
	ResolutionExistingUserUpdated ResolutionTag = "existing-user-updated"
	ResolutionNewUserCreated      ResolutionTag = "new-user-created"
)

// ContactAuthResult is the outcome of a contact-based register or login.
// The session ID is an opaque identifier, never a signed token: contact
// identities may be password-less and get no cryptographic session here.
type ContactAuthResult struct {
	User      *PublicUser
	SessionID string
	Result    ResolutionTag
}

// RegisterInput carries the fields for password-based registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// ContactRegisterInput carries a contact-based registration submission.
type ContactRegisterInput struct {
	Name      string
	Contacts  []Contact
	Source    string
	SessionID string
}

// Service is the authentication engine: it orchestrates the credential
// store, reset-token store, password hasher, token issuer, session provider,
// and notification sender into the register/login/refresh/reset/change/
// contact flows. Every operation is a short-lived request-scoped transaction
// over the data model.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ValidateToken(ctx context.Context, token string) (*PublicUser, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)

	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	RegisterContact(ctx context.Context, input ContactRegisterInput) (*ContactAuthResult, error)
	LoginContact(ctx context.Context, contactType ContactType, value string) (*ContactAuthResult, error)
}

// service implements the Service interface.
type service struct {
	repo     Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	sessions session.Provider
	notifier notification.Service
	logger   *slog.Logger

	supportEmail string
}

// Config holds the collaborators for the identity service. All wiring is
// explicit: the engine resolves nothing ambiently.
type Config struct {
	Repo     Repository
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Sessions session.Provider
	Notifier notification.Service
	Logger   *slog.Logger

	// SupportEmail appears in outbound mail templates.
	SupportEmail string
}

// NewService creates a new identity service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:         cfg.Repo,
		hasher:       cfg.Hasher,
		tokens:       cfg.Tokens,
		sessions:     cfg.Sessions,
		notifier:     cfg.Notifier,
		logger:       cfg.Logger,
		supportEmail: cfg.SupportEmail,
	}
}
