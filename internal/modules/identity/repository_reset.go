package identity

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// CreateResetToken persists a new password-reset grant.
func (r *repository) CreateResetToken(ctx context.Context, rt *ResetToken) error {
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now()
	}

	query, args, err := r.psql.Insert("reset_tokens").
		Columns("token", "user_id", "expires_at", "used", "created_at").
		Values(rt.Token, rt.UserID, rt.ExpiresAt, rt.Used, rt.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// FindUnusedResetToken looks up an unused token by exact string match.
// Used tokens are invisible here; expiry is the caller's check.
func (r *repository) FindUnusedResetToken(ctx context.Context, token string) (*ResetToken, error) {
	query, args, err := r.psql.Select("token", "user_id", "expires_at", "used", "created_at").
		From("reset_tokens").
		Where(squirrel.Eq{"token": token, "used": false}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rt ResetToken
	if err := pgxscan.Get(ctx, r.db, &rt, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &rt, nil
}

// ConsumeResetToken marks a token used. The used=false guard serializes
// concurrent confirmations at the store: only one update wins, the rest get
// ErrNotFound.
func (r *repository) ConsumeResetToken(ctx context.Context, token string) error {
	query, args, err := r.psql.Update("reset_tokens").
		Set("used", true).
		Where(squirrel.Eq{"token": token, "used": false}).
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
