package identity

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/go-identity-service/internal/httpx"
	"github.com/delordemm1/go-identity-service/internal/validation"
)

// --- DTOs ---

// ContactEntry is the wire form of one contact entry.
type ContactEntry struct {
	Type      string `json:"type" validate:"required,oneof=email phone other"`
	Value     string `json:"value" validate:"required"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

// ContactRegisterRequest defines the contact-based registration body.
type ContactRegisterRequest struct {
	Body struct {
		Name        string         `json:"name,omitempty"`
		ContactInfo []ContactEntry `json:"contactInfo" validate:"required,min=1,dive"`
		Source      string         `json:"source,omitempty"`
		SessionID   string         `json:"sessionId,omitempty"`
	}
}

// ContactAuthResponse is the shared shape for contact register/login
// responses. The session ID is opaque; there is no token pair on this path.
type ContactAuthResponse struct {
	Body struct {
		User      *PublicUser `json:"user"`
		SessionID string      `json:"sessionId"`
		Result    string      `json:"result"`
	}
}

// ContactLoginRequest defines the contact-based login body.
type ContactLoginRequest struct {
	Body struct {
		Type  string `json:"type" validate:"required,oneof=email phone other"`
		Value string `json:"value" validate:"required"`
	}
}

// --- Mapper ---

func toContactAuthResponse(result *ContactAuthResult) *ContactAuthResponse {
	resp := &ContactAuthResponse{}
	resp.Body.User = result.User
	resp.Body.SessionID = result.SessionID
	resp.Body.Result = string(result.Result)
	return resp
}

// --- Handlers ---

// ContactRegisterHandler resolves or creates an identity from a contact submission.
func (h *Handler) ContactRegisterHandler(ctx context.Context, input *ContactRegisterRequest) (*ContactAuthResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	contacts := make([]Contact, 0, len(input.Body.ContactInfo))
	for _, e := range input.Body.ContactInfo {
		contacts = append(contacts, Contact{
			Type:      ContactType(e.Type),
			Value:     e.Value,
			IsPrimary: e.IsPrimary,
		})
	}

	result, err := h.service.RegisterContact(ctx, ContactRegisterInput{
		Name:      input.Body.Name,
		Contacts:  contacts,
		Source:    input.Body.Source,
		SessionID: input.Body.SessionID,
	})
	if err != nil {
		h.logger.Error("contact registration failed", "error", err)
		if errors.Is(err, ErrContactRequired) {
			return nil, huma.Error400BadRequest("at least one contact entry is required")
		}
		return nil, httpx.InternalProblem(ctx, "")
	}

	h.logger.Info("contact registration resolved", "user_id", result.User.ID, "result", string(result.Result))
	return toContactAuthResponse(result), nil
}

// ContactLoginHandler authenticates an existing contact identity.
func (h *Handler) ContactLoginHandler(ctx context.Context, input *ContactLoginRequest) (*ContactAuthResponse, error) {
	result, err := h.service.LoginContact(ctx, ContactType(input.Body.Type), input.Body.Value)
	if err != nil {
		h.logger.Warn("contact login failed", "type", input.Body.Type, "error", err)
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("invalid contact credentials")
		}
		if errors.Is(err, ErrAccountInactive) {
			return nil, huma.Error401Unauthorized("user account is inactive")
		}
		return nil, httpx.InternalProblem(ctx, "")
	}

	h.logger.Info("contact login succeeded", "user_id", result.User.ID)
	return toContactAuthResponse(result), nil
}
