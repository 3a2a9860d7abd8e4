package identity

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/go-identity-service/internal/httpx"
)

// --- DTOs (Data Transfer Objects) ---

// RegisterRequest defines the structure for the user registration request body.
type RegisterRequest struct {
	Body struct {
		FirstName string `json:"firstName,omitempty" validate:"omitempty,min=2"`
		LastName  string `json:"lastName,omitempty" validate:"omitempty,min=2"`
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=6"`
		Phone     string `json:"phone,omitempty"`
	}
}

// AuthResponse is the shared shape for successful register/login/refresh
// responses: the sanitized user plus a fresh token pair.
type AuthResponse struct {
	Body struct {
		User         *PublicUser `json:"user"`
		AccessToken  string      `json:"accessToken"`
		RefreshToken string      `json:"refreshToken"`
	}
}

// LoginRequest defines the structure for the user login request body.
type LoginRequest struct {
	Body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
}

// ValidateTokenRequest carries an access token to verify.
type ValidateTokenRequest struct {
	Body struct {
		Token string `json:"token" validate:"required"`
	}
}

// ValidateTokenResponse reports a valid token and its user.
type ValidateTokenResponse struct {
	Body struct {
		Valid bool        `json:"valid"`
		User  *PublicUser `json:"user"`
	}
}

// RefreshTokenRequest carries a refresh token to exchange.
type RefreshTokenRequest struct {
	Body struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
}

// --- Mapper ---

func toAuthResponse(result *AuthResult) *AuthResponse {
	resp := &AuthResponse{}
	resp.Body.User = result.User
	resp.Body.AccessToken = result.Tokens.AccessToken
	resp.Body.RefreshToken = result.Tokens.RefreshToken
	return resp
}

// --- Handlers ---

// RegisterHandler handles the user registration endpoint.
func (h *Handler) RegisterHandler(ctx context.Context, input *RegisterRequest) (*AuthResponse, error) {
	h.logger.Info("handling user registration request", "email", input.Body.Email)

	result, err := h.service.Register(ctx, RegisterInput{
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		Phone:     input.Body.Phone,
	})
	if err != nil {
		h.logger.Error("registration failed", "error", err)
		if errors.Is(err, ErrEmailExists) {
			return nil, huma.Error409Conflict("a user with this email already exists", err)
		}
		return nil, httpx.InternalProblem(ctx, "")
	}

	h.logger.Info("user registered successfully", "user_id", result.User.ID)
	return toAuthResponse(result), nil
}

// LoginHandler handles the user login endpoint.
func (h *Handler) LoginHandler(ctx context.Context, input *LoginRequest) (*AuthResponse, error) {
	h.logger.Info("handling user login request", "email", input.Body.Email)

	result, err := h.service.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		h.logger.Warn("login attempt failed", "email", input.Body.Email, "error", err)
		// Invalid credentials and unknown email share one response to prevent
		// email enumeration; an inactive account is the one distinguished case.
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("invalid email or password")
		}
		if errors.Is(err, ErrAccountInactive) {
			return nil, huma.Error401Unauthorized("user account is inactive")
		}
		return nil, httpx.InternalProblem(ctx, "")
	}

	h.logger.Info("user logged in successfully", "user_id", result.User.ID)
	return toAuthResponse(result), nil
}

// ValidateTokenHandler verifies an access token and returns its user.
func (h *Handler) ValidateTokenHandler(ctx context.Context, input *ValidateTokenRequest) (*ValidateTokenResponse, error) {
	user, err := h.service.ValidateToken(ctx, input.Body.Token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, huma.Error401Unauthorized("invalid or expired token")
		}
		return nil, httpx.InternalProblem(ctx, "")
	}

	resp := &ValidateTokenResponse{}
	resp.Body.Valid = true
	resp.Body.User = user
	return resp, nil
}

// RefreshTokenHandler exchanges a refresh token for a new token pair.
func (h *Handler) RefreshTokenHandler(ctx context.Context, input *RefreshTokenRequest) (*AuthResponse, error) {
	result, err := h.service.RefreshToken(ctx, input.Body.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, huma.Error401Unauthorized("invalid or expired refresh token")
		}
		return nil, httpx.InternalProblem(ctx, "")
	}

	h.logger.Info("token refreshed", "user_id", result.User.ID)
	return toAuthResponse(result), nil
}
