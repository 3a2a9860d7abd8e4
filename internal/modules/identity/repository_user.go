package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

const userColumns = "id, email, phone, password_hash, first_name, last_name, name, " +
	"contact_info, source, session_id, is_active, is_verified, last_activity, created_at, updated_at"

// Create inserts a new user record into the database.
func (r *repository) Create(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	contactInfo, err := json.Marshal(user.ContactInfo)
	if err != nil {
		return err
	}

	query, args, err := r.psql.Insert("users").
		Columns("id", "email", "phone", "password_hash", "first_name", "last_name", "name",
			"contact_info", "source", "session_id", "is_active", "is_verified", "last_activity",
			"created_at", "updated_at").
		Values(user.ID, user.Email, user.Phone, user.PasswordHash, user.FirstName, user.LastName, user.Name,
			contactInfo, user.Source, user.SessionID, user.IsActive, user.IsVerified, user.LastActivity,
			user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// Update persists the full mutable state of an existing user. The engine
// treats the store as the only mutation authority: callers read, compute the
// new value, and write it back here.
func (r *repository) Update(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now()

	contactInfo, err := json.Marshal(user.ContactInfo)
	if err != nil {
		return err
	}

	query, args, err := r.psql.Update("users").
		Set("email", user.Email).
		Set("phone", user.Phone).
		Set("password_hash", user.PasswordHash).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("name", user.Name).
		Set("contact_info", contactInfo).
		Set("source", user.Source).
		Set("session_id", user.SessionID).
		Set("is_active", user.IsActive).
		Set("is_verified", user.IsVerified).
		Set("last_activity", user.LastActivity).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID retrieves a user by their unique ID.
// It returns ErrNotFound if no user is found.
func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByEmail retrieves a user by the legacy email column.
// It returns ErrNotFound if no user is found.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// FindByPhone retrieves a user by the legacy phone column.
// It returns ErrNotFound if no user is found.
func (r *repository) FindByPhone(ctx context.Context, phone string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"phone": phone})
}

// FindByContact retrieves a user whose contact list contains the exact
// (type, value) pair, using jsonb containment.
func (r *repository) FindByContact(ctx context.Context, contactType ContactType, value string) (*User, error) {
	needle, err := json.Marshal([]struct {
		Type  ContactType `json:"type"`
		Value string      `json:"value"`
	}{{Type: contactType, Value: value}})
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, squirrel.Expr("contact_info @> ?::jsonb", string(needle)))
}

// UpdatePassword sets a new password hash for a user.
func (r *repository) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	query, args, err := r.psql.Update("users").
		Set("password_hash", newPasswordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// findOne is a helper method to find a single user by a given condition.
func (r *repository) findOne(ctx context.Context, condition squirrel.Sqlizer) (*User, error) {
	query, args, err := r.psql.Select(userColumns).
		From("users").
		Where(condition).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &user, nil
}
