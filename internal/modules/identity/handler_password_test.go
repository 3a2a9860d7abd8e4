package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/go-identity-service/internal/contextx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *fixture) {
	t.Helper()
	fx := newFixture(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(fx.svc, logger, nil), fx
}

func TestForgotPasswordHandler_IdenticalResponses(t *testing.T) {
	t.Parallel()
	h, fx := newTestHandler(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, RegisterInput{Email: "exists@example.com", Password: "pw123456"})
	require.NoError(t, err)

	known := &ForgotPasswordRequest{}
	known.Body.Email = "exists@example.com"
	unknown := &ForgotPasswordRequest{}
	unknown.Body.Email = "ghost@example.com"

	respKnown, err := h.ForgotPasswordHandler(ctx, known)
	require.NoError(t, err)
	respUnknown, err := h.ForgotPasswordHandler(ctx, unknown)
	require.NoError(t, err)

	// Byte-for-byte identical bodies: the response must not reveal whether
	// the email is registered.
	assert.Equal(t, respKnown.Body.Message, respUnknown.Body.Message)
	assert.NotEmpty(t, respKnown.Body.Message)
}

func TestResetPasswordHandler_InvalidTokenIsBadRequest(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	req := &ResetPasswordRequest{}
	req.Body.Token = "never-issued"
	req.Body.NewPassword = "new-password"

	_, err := h.ResetPasswordHandler(context.Background(), req)
	require.Error(t, err)
	var status huma.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, 400, status.GetStatus())
}

func TestChangePasswordHandler_RequiresAuthenticatedUser(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	req := &ChangePasswordRequest{}
	req.Body.CurrentPassword = "a"
	req.Body.NewPassword = "new-password"

	// No user ID on the context: the middleware never ran.
	_, err := h.ChangePasswordHandler(context.Background(), req)
	require.Error(t, err)
	var status huma.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, 401, status.GetStatus())
}

func TestChangePasswordHandler_UsesContextUserID(t *testing.T) {
	t.Parallel()
	h, fx := newTestHandler(t)
	ctx := context.Background()

	reg, err := fx.svc.Register(ctx, RegisterInput{Email: "hctx@example.com", Password: "current-pw"})
	require.NoError(t, err)

	authedCtx := context.WithValue(ctx, contextx.UserIDKey, reg.User.ID)
	req := &ChangePasswordRequest{}
	req.Body.CurrentPassword = "current-pw"
	req.Body.NewPassword = "brand-new-pw"

	_, err = h.ChangePasswordHandler(authedCtx, req)
	require.NoError(t, err)

	_, err = fx.svc.Login(ctx, "hctx@example.com", "brand-new-pw")
	assert.NoError(t, err)
}
