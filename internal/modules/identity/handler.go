package identity

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Handler holds the dependencies for the identity module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
	authMW  func(ctx huma.Context, next func(huma.Context))
}

// NewHandler creates a new handler for the identity module. authMW guards
// the routes that require a bearer access token.
func NewHandler(service Service, logger *slog.Logger, authMW func(ctx huma.Context, next func(huma.Context))) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		authMW:  authMW,
	}
}

// RegisterRoutes sets up the routing for the identity module.
func (h *Handler) RegisterRoutes(api huma.API) {
	// --- Password-based authentication ---
	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/register",
		Summary: "Register a new user",
	}, h.RegisterHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Summary: "Log in a user",
	}, h.LoginHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/validate",
		Summary: "Validate an access token",
	}, h.ValidateTokenHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/refresh",
		Summary: "Exchange a refresh token for a new token pair",
	}, h.RefreshTokenHandler)

	// --- Password management ---
	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/password/forgot",
		Summary: "Initiate password reset",
	}, h.ForgotPasswordHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/password/reset",
		Summary: "Reset password with a token",
	}, h.ResetPasswordHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/auth/password/change",
		Summary:     "Change the current user's password",
		Middlewares: huma.Middlewares{h.authMW},
		Security:    []map[string][]string{{"bearer": {}}},
	}, h.ChangePasswordHandler)

	// --- Contact-based identity ---
	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/contact/register",
		Summary: "Register or resolve a contact-based identity",
	}, h.ContactRegisterHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/contact/login",
		Summary: "Log in with a contact identifier",
	}, h.ContactLoginHandler)
}
