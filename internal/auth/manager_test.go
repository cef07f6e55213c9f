package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glintwash/glintwash-client/pkg/api"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/glintwash/glintwash-client/pkg/session"
	"github.com/glintwash/glintwash-client/pkg/types"
	"github.com/golang-jwt/jwt/v5"
)

type memStore struct {
	entries map[session.Key]string
}

func newMemStore() *memStore {
	return &memStore{entries: map[session.Key]string{}}
}

func (s *memStore) Get(ctx context.Context, key session.Key) (string, error) {
	value, ok := s.entries[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return value, nil
}

func (s *memStore) Set(ctx context.Context, key session.Key, value string) error {
	s.entries[key] = value
	return nil
}

func (s *memStore) Del(ctx context.Context, keys ...session.Key) error {
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

type stubUserAPI struct {
	loginData     *api.LoginData
	loginErr      error
	registerCalls int
	loginCalls    int
}

func (s *stubUserAPI) Register(ctx context.Context, req api.RegisterRequest) (*types.UserDTO, error) {
	s.registerCalls++
	return &types.UserDTO{ID: 7, Email: req.Email}, nil
}

func (s *stubUserAPI) Login(ctx context.Context, req api.LoginRequest) (*api.LoginData, error) {
	s.loginCalls++
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginData, nil
}

func (s *stubUserAPI) VerifyEmail(ctx context.Context, req api.VerifyEmailRequest) error { return nil }
func (s *stubUserAPI) ForgotPassword(ctx context.Context, req api.ForgotPasswordRequest) error {
	return nil
}
func (s *stubUserAPI) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error {
	return nil
}
func (s *stubUserAPI) UpdateProfile(ctx context.Context, userID int64, req api.UpdateProfileRequest) (*types.UserDTO, error) {
	return &types.UserDTO{ID: userID, FirstName: req.FirstName, LastName: req.LastName, Phone: req.Phone}, nil
}
func (s *stubUserAPI) ChangePassword(ctx context.Context, userID int64, req api.ChangePasswordRequest) error {
	return nil
}

func newManager(t *testing.T, stub *stubUserAPI, store session.Store) *Manager {
	t.Helper()
	manager, err := NewManager(Params{API: stub, Store: store})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func TestLoginPersistsTokenAndUser(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	stub := &stubUserAPI{loginData: &api.LoginData{
		Token: "tok-1",
		User:  types.UserDTO{ID: 42, FirstName: "Rita", Email: "rita@example.com"},
	}}
	manager := newManager(t, stub, store)

	var notified *types.User
	manager.OnUserChange(func(ctx context.Context, user *types.User) { notified = user })

	ctx := context.Background()
	if err := manager.Login(ctx, "rita@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if !manager.IsAuthenticated() {
		t.Fatal("expected authenticated state")
	}
	if manager.Token() != "tok-1" {
		t.Fatalf("unexpected token %q", manager.Token())
	}
	if notified == nil || notified.ID != 42 {
		t.Fatalf("listener not notified with user: %+v", notified)
	}
	if store.entries[session.KeyToken] != "tok-1" {
		t.Fatal("token not persisted")
	}
	if _, ok := store.entries[session.KeyUser]; !ok {
		t.Fatal("user not persisted")
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	stub := &stubUserAPI{loginErr: pkgerrors.New(pkgerrors.CodeRemote, "invalid credentials")}
	manager := newManager(t, stub, store)

	err := manager.Login(context.Background(), "rita@example.com", "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if manager.IsAuthenticated() {
		t.Fatal("must stay logged out")
	}
	if len(store.entries) != 0 {
		t.Fatalf("nothing may be persisted, got %v", store.entries)
	}
}

func TestLogoutClearsMemoryAndStoreSynchronously(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	stub := &stubUserAPI{loginData: &api.LoginData{Token: "tok", User: types.UserDTO{ID: 1}}}
	manager := newManager(t, stub, store)

	ctx := context.Background()
	if err := manager.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := manager.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if manager.IsAuthenticated() {
		t.Fatal("expected unauthenticated state")
	}
	if manager.Token() != "" {
		t.Fatal("token must be cleared")
	}
	if _, ok := store.entries[session.KeyToken]; ok {
		t.Fatal("persisted token must be deleted")
	}
	if _, ok := store.entries[session.KeyUser]; ok {
		t.Fatal("persisted user must be deleted")
	}
}

func TestSignupValidatesBeforeNetwork(t *testing.T) {
	t.Parallel()

	stub := &stubUserAPI{}
	manager := newManager(t, stub, newMemStore())

	err := manager.Signup(context.Background(), SignupInput{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.registerCalls != 0 {
		t.Fatal("no network call may be issued on validation failure")
	}
}

func TestHydrateRestoresSession(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.entries[session.KeyToken] = "opaque-token"
	store.entries[session.KeyUser] = `{"ID":9,"FirstName":"Omar"}`
	manager := newManager(t, &stubUserAPI{}, store)

	if err := manager.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	user := manager.CurrentUser()
	if user == nil || user.ID != 9 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if manager.Token() != "opaque-token" {
		t.Fatalf("unexpected token %q", manager.Token())
	}
}

func TestHydratePrunesCorruptUser(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.entries[session.KeyToken] = "opaque-token"
	store.entries[session.KeyUser] = `{broken`
	manager := newManager(t, &stubUserAPI{}, store)

	if err := manager.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate must be fail-safe: %v", err)
	}
	if manager.IsAuthenticated() {
		t.Fatal("corrupt user entry must leave the session logged out")
	}
	if _, ok := store.entries[session.KeyUser]; ok {
		t.Fatal("corrupt entry must be deleted")
	}
}

func TestHydrateClearsExpiredToken(t *testing.T) {
	t.Parallel()

	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "9",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	store := newMemStore()
	store.entries[session.KeyToken] = expiredToken
	store.entries[session.KeyUser] = `{"ID":9}`
	manager := newManager(t, &stubUserAPI{}, store)

	if err := manager.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if manager.IsAuthenticated() {
		t.Fatal("expired token must not restore a session")
	}
	if _, ok := store.entries[session.KeyToken]; ok {
		t.Fatal("expired token must be deleted")
	}
}

func TestUpdateProfileRequiresAuth(t *testing.T) {
	t.Parallel()

	manager := newManager(t, &stubUserAPI{}, newMemStore())
	err := manager.UpdateProfile(context.Background(), "A", "B", "123")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	}
}
