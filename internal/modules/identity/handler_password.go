package identity

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/go-identity-service/internal/contextx"
	"github.com/delordemm1/go-identity-service/internal/httpx"
)

// --- DTOs ---

// ForgotPasswordRequest defines the structure for initiating a password reset.
type ForgotPasswordRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
	}
}

// ForgotPasswordResponse carries the fixed anti-enumeration message.
type ForgotPasswordResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// ResetPasswordRequest defines the structure for finalizing a password reset.
type ResetPasswordRequest struct {
	Body struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}
}

// ResetPasswordResponse is an empty successful response.
type ResetPasswordResponse struct{}

// ChangePasswordRequest defines the structure for an authenticated password change.
type ChangePasswordRequest struct {
	Body struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=6"`
	}
}

// ChangePasswordResponse is an empty successful response.
type ChangePasswordResponse struct{}

// resetRequestedMessage is returned whether or not the email exists so the
// endpoint cannot be used to probe for accounts. Do not vary this text per
// branch.
const resetRequestedMessage = "if the email exists, a password reset link has been sent"

// --- Handlers ---

// ForgotPasswordHandler handles the request to initiate a password reset.
func (h *Handler) ForgotPasswordHandler(ctx context.Context, input *ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	h.logger.Info("handling forgot password request", "email", input.Body.Email)

	if err := h.service.RequestPasswordReset(ctx, input.Body.Email); err != nil {
		// We log the real error for debugging but return the same success
		// response in all cases. Token delivery failures are handled in the
		// service layer; a failure here is a system issue, not a client one.
		h.logger.Error("failed to initiate password reset", "email", input.Body.Email, "error", err)
	}

	resp := &ForgotPasswordResponse{}
	resp.Body.Message = resetRequestedMessage
	return resp, nil
}

// ResetPasswordHandler handles the request to set a new password using a reset token.
func (h *Handler) ResetPasswordHandler(ctx context.Context, input *ResetPasswordRequest) (*ResetPasswordResponse, error) {
	h.logger.Info("handling reset password request")

	err := h.service.ConfirmPasswordReset(ctx, input.Body.Token, input.Body.NewPassword)
	if err != nil {
		h.logger.Warn("failed to reset password", "error", err)
		if errors.Is(err, ErrInvalidResetToken) {
			return nil, huma.Error400BadRequest("the provided token is invalid or has expired")
		}
		return nil, httpx.InternalProblem(ctx, "could not reset password")
	}

	h.logger.Info("password reset successfully")
	return &ResetPasswordResponse{}, nil
}

// ChangePasswordHandler handles an authenticated password change. The user ID
// comes from the bearer-auth middleware, never from the request body.
func (h *Handler) ChangePasswordHandler(ctx context.Context, input *ChangePasswordRequest) (*ChangePasswordResponse, error) {
	userID, ok := ctx.Value(contextx.UserIDKey).(string)
	if !ok || userID == "" {
		return nil, huma.Error401Unauthorized("missing authentication")
	}

	err := h.service.ChangePassword(ctx, userID, input.Body.CurrentPassword, input.Body.NewPassword)
	if err != nil {
		h.logger.Warn("failed to change password", "error", err, "user_id", userID)
		if errors.Is(err, ErrNotFound) {
			return nil, huma.Error404NotFound("user not found or has no password set")
		}
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("current password is incorrect")
		}
		return nil, httpx.InternalProblem(ctx, "could not change password")
	}

	h.logger.Info("password changed", "user_id", userID)
	return &ChangePasswordResponse{}, nil
}
