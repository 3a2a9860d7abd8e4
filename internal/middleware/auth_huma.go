package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/delordemm1/go-identity-service/internal/contextx"
	"github.com/delordemm1/go-identity-service/internal/httpx"
	"github.com/delordemm1/go-identity-service/internal/modules/identity"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// BearerAuthHuma is a router-agnostic Huma middleware that verifies a bearer
// access token through the identity module's token issuer and injects the
// subject user ID into the request context under contextx.UserIDKey.
// On failure it writes an RFC7807 problem+json response with code ErrUnauthorized.
func BearerAuthHuma(tokens identity.TokenIssuer, logger *slog.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)

		writeUnauthorized := func(detail string) {
			reqID := chimw.GetReqID(r.Context())
			p := &httpx.Problem{
				Type:      "urn:problem:identity/err-unauthorized",
				Title:     http.StatusText(http.StatusUnauthorized),
				Status:    http.StatusUnauthorized,
				Detail:    detail,
				Code:      "ErrUnauthorized",
				RequestID: reqID,
			}
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(p.GetStatus())
			_ = json.NewEncoder(w).Encode(p)
		}

		// 1. Authorization header.
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeUnauthorized("missing authorization header")
			return
		}

		// 2. Bearer token.
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			writeUnauthorized("invalid authorization header format")
			return
		}

		// 3. Verify through the issuer; all failure modes normalize to 401.
		userID, err := tokens.Verify(tokenString)
		if err != nil {
			logger.Warn("invalid bearer token", "error", err)
			writeUnauthorized("invalid or expired token")
			return
		}

		// 4. Inject user ID into context for downstream handlers.
		ctx = huma.WithValue(ctx, contextx.UserIDKey, userID)
		next(ctx)
	}
}
