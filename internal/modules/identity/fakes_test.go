package identity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/delordemm1/go-identity-service/internal/notification"
)

// --- in-memory repository ---

type fakeRepo struct {
	mu     sync.Mutex
	users  map[string]*User
	resets map[string]*ResetToken

	// failWith, when set, is returned by every store call to simulate an
	// unavailable database.
	failWith error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:  make(map[string]*User),
		resets: make(map[string]*ResetToken),
	}
}

func copyUser(u *User) *User {
	cp := *u
	cp.ContactInfo = append([]Contact(nil), u.ContactInfo...)
	return &cp
}

func (f *fakeRepo) Create(ctx context.Context, user *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = copyUser(user)
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, user *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	f.users[user.ID] = copyUser(user)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email != nil && *u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) FindByPhone(ctx context.Context, phone string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Phone != nil && *u.Phone == phone {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) FindByContact(ctx context.Context, contactType ContactType, value string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.HasContact(contactType, value) {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	u, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	hash := newPasswordHash
	u.PasswordHash = &hash
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) CreateResetToken(ctx context.Context, rt *ResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	cp := *rt
	if cp.CreatedAt.IsZero() {
		// The real table stamps this with a column default.
		cp.CreatedAt = time.Now().Add(time.Duration(len(f.resets)) * time.Millisecond)
	}
	f.resets[rt.Token] = &cp
	return nil
}

func (f *fakeRepo) FindUnusedResetToken(ctx context.Context, token string) (*ResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	rt, ok := f.resets[token]
	if !ok || rt.Used {
		return nil, ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeRepo) ConsumeResetToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	rt, ok := f.resets[token]
	if !ok || rt.Used {
		return ErrNotFound
	}
	rt.Used = true
	return nil
}

// setActive flips an account's active flag directly in the store.
func (f *fakeRepo) setActive(id string, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsActive = active
	}
}

// latestResetToken returns the most recently issued reset token string.
func (f *fakeRepo) latestResetToken(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *ResetToken
	for _, rt := range f.resets {
		if latest == nil || rt.CreatedAt.After(latest.CreatedAt) {
			latest = rt
		}
	}
	if latest == nil {
		t.Fatal("no reset token was persisted")
	}
	return latest.Token
}

// expireResetToken backdates a token so it reads as expired.
func (f *fakeRepo) expireResetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rt, ok := f.resets[token]; ok {
		rt.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

// --- opaque session provider ---

type fakeSessions struct {
	mu       sync.Mutex
	n        int
	sessions map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]string)}
}

func (f *fakeSessions) CreateAuthSession(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	id := fmt.Sprintf("auth:test-%d", f.n)
	f.sessions[id] = userID
	return id, nil
}

func (f *fakeSessions) GetAndExtend(ctx context.Context, sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.sessions[sessionID]
	if !ok {
		return "", fmt.Errorf("session not found")
	}
	return userID, nil
}

func (f *fakeSessions) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	return nil
}

// --- recording notifier ---

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []notification.Notification
	sendErr error
}

func (f *fakeNotifier) Send(ctx context.Context, n notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// --- fixture ---

type fixture struct {
	svc      Service
	repo     *fakeRepo
	sessions *fakeSessions
	notifier *fakeNotifier
	tokens   TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	sessions := newFakeSessions()
	notifier := &fakeNotifier{}
	tokens := NewJWTIssuer("test-secret", time.Hour, 2*time.Hour)
	svc := NewService(&Config{
		Repo:         repo,
		Hasher:       NewBcryptHasher(4), // bcrypt.MinCost keeps tests fast
		Tokens:       tokens,
		Sessions:     sessions,
		Notifier:     notifier,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		SupportEmail: "support@example.com",
	})
	return &fixture{svc: svc, repo: repo, sessions: sessions, notifier: notifier, tokens: tokens}
}
