package identity

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/go-identity-service/internal/database"
)

// Repository defines the durable store interfaces consumed by the identity
// engine: user records (credential store) and reset tokens (reset token
// store). This abstraction allows the service layer to be independent of
// the database implementation.
type Repository interface {
	// Credential store
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByContact(ctx context.Context, contactType ContactType, value string) (*User, error)
	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error

	// Reset token store
	CreateResetToken(ctx context.Context, rt *ResetToken) error
	FindUnusedResetToken(ctx context.Context, token string) (*ResetToken, error)
	// ConsumeResetToken flips used to true. The update is conditional on
	// used=false so concurrent confirmations consume a token at most once;
	// losers see ErrNotFound.
	ConsumeResetToken(ctx context.Context, token string) error
}

// repository implements the Repository interface using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new identity repository with the given database connection.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
