package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer creates and verifies the signed session credentials. Access and
// refresh tokens share the signing key and claim structure; only their
// lifetimes differ. Verification is a pure function of the token, the key,
// and the clock.
type TokenIssuer interface {
	// IssueAccess creates a short-lived access token for the given user.
	IssueAccess(userID string) (string, error)

	// IssueRefresh creates a long-lived refresh token for the given user.
	IssueRefresh(userID string) (string, error)

	// Verify checks the signature and expiry of a token and returns its
	// subject. Any failure (bad signature, malformed structure, elapsed
	// expiry) is normalized to ErrInvalidToken.
	Verify(token string) (string, error)
}

// jwtIssuer implements TokenIssuer with HS256-signed JWTs.
type jwtIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTIssuer creates a TokenIssuer signing with the given process-wide
// secret. Non-positive lifetimes fall back to the defaults: 7 days for
// access tokens and 30 days for refresh tokens.
func NewJWTIssuer(secret string, accessTTL, refreshTTL time.Duration) TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = 7 * 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &jwtIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (i *jwtIssuer) IssueAccess(userID string) (string, error) {
	return i.sign(userID, i.accessTTL)
}

func (i *jwtIssuer) IssueRefresh(userID string) (string, error) {
	return i.sign(userID, i.refreshTTL)
}

func (i *jwtIssuer) sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *jwtIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken.WithCause(err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
