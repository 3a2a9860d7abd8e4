package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config controls session TTLs.
type Config struct {
	// SlidingTTL is the idle timeout. Each valid access extends the session
	// by this duration. Default: 7 days.
	SlidingTTL time.Duration
}

// Provider defines operations for managing opaque sessions.
//
// Session IDs MUST be opaque, random, and prefixed with a type, e.g. "auth:".
// These are the non-cryptographic sessions handed to contact-based identities;
// they carry no claims and are only resolvable through the provider.
type Provider interface {
	// CreateAuthSession creates a new auth session for the given user and
	// returns the session ID, e.g. "auth:..." with a base64url-encoded random
	// token part.
	CreateAuthSession(ctx context.Context, userID string) (sessionID string, err error)

	// GetAndExtend validates the given session ID and extends the sliding TTL.
	// It returns the associated user ID on success.
	GetAndExtend(ctx context.Context, sessionID string) (userID string, err error)

	// Delete deletes a session by its session ID. It should be idempotent.
	Delete(ctx context.Context, sessionID string) error
}

// NewRedisProvider returns a Redis-backed Provider implementation.
// Implemented in redis.go.
func NewRedisProvider(client *redis.Client, cfg Config) Provider {
	return newRedisProvider(client, cfg)
}
