package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterContact_CreatesNewUser(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	result, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Name: "Grace Hopper",
		Contacts: []Contact{
			{Type: ContactTypeEmail, Value: "grace@example.com", IsPrimary: true},
			{Type: ContactTypePhone, Value: "+15550001111"},
		},
		Source: "import",
	})
	require.NoError(t, err)
	assert.Equal(t, ResolutionNewUserCreated, result.Result)
	assert.NotEmpty(t, result.SessionID)
	require.NotNil(t, result.User.Name)
	assert.Equal(t, "Grace Hopper", *result.User.Name)
	assert.Len(t, result.User.ContactInfo, 2)
	assert.True(t, result.User.IsActive)
	assert.NotNil(t, result.User.LastActivity)

	// The primary contact populates the legacy email column.
	require.NotNil(t, result.User.Email)
	assert.Equal(t, "grace@example.com", *result.User.Email)
	assert.Nil(t, result.User.Phone)
}

func TestRegisterContact_PrimaryFallsBackToFirstEntry(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	result, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{
			{Type: ContactTypePhone, Value: "+15550002222"},
			{Type: ContactTypeEmail, Value: "second@example.com"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.User.Phone)
	assert.Equal(t, "+15550002222", *result.User.Phone)
	assert.Nil(t, result.User.Email)
}

func TestRegisterContact_EmptyContactList(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	_, err := fx.svc.RegisterContact(context.Background(), ContactRegisterInput{Name: "Nobody"})
	assert.ErrorIs(t, err, ErrContactRequired)
}

func TestRegisterContact_MergesIntoExistingUser(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	first, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeEmail, Value: "merge@example.com"}},
	})
	require.NoError(t, err)
	require.Equal(t, ResolutionNewUserCreated, first.Result)

	second, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Name: "Merged Name",
		Contacts: []Contact{
			{Type: ContactTypeEmail, Value: "merge@example.com"},
			{Type: ContactTypePhone, Value: "+15550003333"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ResolutionExistingUserUpdated, second.Result)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, second.User.ContactInfo, 2)
	require.NotNil(t, second.User.Name)
	assert.Equal(t, "Merged Name", *second.User.Name)

	// Each resolution mints a fresh session.
	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestRegisterContact_DedupesOnTypeAndValue(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeEmail, Value: "dedupe@example.com"}},
	})
	require.NoError(t, err)

	// Same value, same type: no new entry. Same value, different type: new entry.
	result, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{
			{Type: ContactTypeEmail, Value: "dedupe@example.com"},
			{Type: ContactTypeOther, Value: "dedupe@example.com"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ResolutionExistingUserUpdated, result.Result)
	assert.Len(t, result.User.ContactInfo, 2)
}

func TestRegisterContact_MergeDoesNotDemotePrimary(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	first, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeEmail, Value: "prim@example.com", IsPrimary: true}},
	})
	require.NoError(t, err)

	result, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{
			{Type: ContactTypeEmail, Value: "prim@example.com"},
			{Type: ContactTypePhone, Value: "+15550004444", IsPrimary: true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, first.User.ID, result.User.ID)

	// The original entry keeps its flag and its position; the new entry is
	// appended as submitted.
	require.Len(t, result.User.ContactInfo, 2)
	assert.Equal(t, ContactTypeEmail, result.User.ContactInfo[0].Type)
	assert.True(t, result.User.ContactInfo[0].IsPrimary)
	assert.Equal(t, ContactTypePhone, result.User.ContactInfo[1].Type)
}

func TestRegisterContact_MergeKeepsMetadataWhenOmitted(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Name:     "Original Name",
		Contacts: []Contact{{Type: ContactTypeEmail, Value: "meta@example.com"}},
		Source:   "signup-form",
	})
	require.NoError(t, err)

	// Empty metadata on a later submission leaves the stored values alone.
	result, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeEmail, Value: "meta@example.com"}},
	})
	require.NoError(t, err)
	require.NotNil(t, result.User.Name)
	assert.Equal(t, "Original Name", *result.User.Name)
	require.NotNil(t, result.User.Source)
	assert.Equal(t, "signup-form", *result.User.Source)
}

func TestRegisterContact_FirstMatchWins(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	a, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeEmail, Value: "a@example.com"}},
	})
	require.NoError(t, err)
	b, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypePhone, Value: "+15550005555"}},
	})
	require.NoError(t, err)
	require.NotEqual(t, a.User.ID, b.User.ID)

	// A submission matching both users resolves to the earliest-ordered
	// entry's match; the other user is left untouched.
	result, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{
			{Type: ContactTypeEmail, Value: "a@example.com"},
			{Type: ContactTypePhone, Value: "+15550005555"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, a.User.ID, result.User.ID)

	other, err := fx.repo.FindByID(ctx, b.User.ID)
	require.NoError(t, err)
	assert.Len(t, other.ContactInfo, 1)
}

func TestRegisterContact_ResolvesThroughOtherChannel(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	first, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeOther, Value: "telegram:@grace"}},
	})
	require.NoError(t, err)

	result, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeOther, Value: "telegram:@grace"}},
	})
	require.NoError(t, err)
	assert.Equal(t, ResolutionExistingUserUpdated, result.Result)
	assert.Equal(t, first.User.ID, result.User.ID)
}

func TestLoginContact(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	reg, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeEmail, Value: "clogin@example.com"}},
	})
	require.NoError(t, err)
	before := *reg.User.LastActivity

	time.Sleep(5 * time.Millisecond)
	result, err := fx.svc.LoginContact(ctx, ContactTypeEmail, "clogin@example.com")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, result.User.ID)
	assert.NotEmpty(t, result.SessionID)
	assert.NotEqual(t, reg.SessionID, result.SessionID)

	require.NotNil(t, result.User.LastActivity)
	assert.True(t, result.User.LastActivity.After(before))
}

func TestLoginContact_UnknownContact(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	_, err := fx.svc.LoginContact(context.Background(), ContactTypePhone, "+10000000000")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginContact_InactiveUser(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	reg, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeEmail, Value: "coff@example.com"}},
	})
	require.NoError(t, err)
	fx.repo.setActive(reg.User.ID, false)

	_, err = fx.svc.LoginContact(ctx, ContactTypeEmail, "coff@example.com")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestContactSessionResolvesToUser(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()

	reg, err := fx.svc.RegisterContact(ctx, ContactRegisterInput{
		Contacts: []Contact{{Type: ContactTypeEmail, Value: "sess@example.com"}},
	})
	require.NoError(t, err)

	userID, err := fx.sessions.GetAndExtend(ctx, reg.SessionID)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)
}
