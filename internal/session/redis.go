package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound = errors.New("session not found")
)

type redisProvider struct {
	client *redis.Client
	cfg    Config
}

func newRedisProvider(client *redis.Client, cfg Config) *redisProvider {
	// Defaults
	if cfg.SlidingTTL == 0 {
		cfg.SlidingTTL = 7 * 24 * time.Hour // 7 days
	}
	return &redisProvider{client: client, cfg: cfg}
}

func (p *redisProvider) CreateAuthSession(ctx context.Context, userID string) (string, error) {
	raw, err := randomOpaque(32)
	if err != nil {
		return "", err
	}
	sessionID := "auth:" + raw

	if err := p.client.Set(ctx, sessionKey(sessionID), userID, p.cfg.SlidingTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sessionID, nil
}

func (p *redisProvider) GetAndExtend(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" || !strings.Contains(sessionID, ":") {
		return "", ErrNotFound
	}

	// GETEX resets the sliding TTL in the same round trip as the lookup.
	userID, err := p.client.GetEx(ctx, sessionKey(sessionID), p.cfg.SlidingTTL).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to look up session: %w", err)
	}
	return userID, nil
}

func (p *redisProvider) Delete(ctx context.Context, sessionID string) error {
	if err := p.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func randomOpaque(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand read: %w", err)
	}
	// base64url without padding
	return base64.RawURLEncoding.EncodeToString(b), nil
}
