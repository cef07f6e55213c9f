package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glintwash/glintwash-client/internal/validate"
	"github.com/glintwash/glintwash-client/pkg/api"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/glintwash/glintwash-client/pkg/logger"
	"github.com/glintwash/glintwash-client/pkg/session"
	"github.com/glintwash/glintwash-client/pkg/types"
	"github.com/golang-jwt/jwt/v5"
)

type userAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*types.UserDTO, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginData, error)
	VerifyEmail(ctx context.Context, req api.VerifyEmailRequest) error
	ForgotPassword(ctx context.Context, req api.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error
	UpdateProfile(ctx context.Context, userID int64, req api.UpdateProfileRequest) (*types.UserDTO, error)
	ChangePassword(ctx context.Context, userID int64, req api.ChangePasswordRequest) error
}

// UserListener is notified after the authenticated user changes; nil means
// logged out.
type UserListener func(ctx context.Context, user *types.User)

// Manager owns the user identity and the bearer token. Every operation is a
// single attempt against the backend; failures surface as coded errors and
// leave prior state intact.
type Manager struct {
	api   userAPI
	store session.Store
	logg  *logger.Logger

	mu        sync.RWMutex
	user      *types.User
	token     string
	listeners []UserListener
}

// Params bundles the dependencies required to build the auth manager.
type Params struct {
	API    userAPI
	Store  session.Store
	Logger *logger.Logger
}

// NewManager constructs the auth session manager.
func NewManager(params Params) (*Manager, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Manager{
		api:   params.API,
		store: params.Store,
		logg:  params.Logger,
	}, nil
}

// OnUserChange registers a listener fired after login, logout and hydrate.
func (m *Manager) OnUserChange(listener UserListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// CurrentUser returns a copy of the authenticated user, nil when logged out.
func (m *Manager) CurrentUser() *types.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

func (m *Manager) IsAuthenticated() bool {
	return m.CurrentUser() != nil
}

// SignupInput is validated locally before any network call.
type SignupInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	UserName  string `json:"user_name" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

// Signup registers a new account. The server assigns the id and sends the
// verification OTP out of band.
func (m *Manager) Signup(ctx context.Context, input SignupInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	_, err := m.api.Register(ctx, api.RegisterRequest{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		UserName:  input.UserName,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  input.Password,
	})
	return err
}

// Login authenticates and, on success, mirrors token and normalized user
// into the session store.
func (m *Manager) Login(ctx context.Context, identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "identifier and password are required")
	}

	data, err := m.api.Login(ctx, api.LoginRequest{Identifier: identifier, Password: password})
	if err != nil {
		return err
	}

	user := data.User.ToDomain()
	m.setUser(ctx, &user, data.Token)

	if err := m.store.Set(ctx, session.KeyToken, data.Token); err != nil {
		m.warn(ctx, "persisting token failed", err)
	}
	if err := session.SaveJSON(ctx, m.store, session.KeyUser, user); err != nil {
		m.warn(ctx, "persisting user failed", err)
	}
	return nil
}

func (m *Manager) VerifyEmail(ctx context.Context, email, otp string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(otp) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and otp are required")
	}
	return m.api.VerifyEmail(ctx, api.VerifyEmailRequest{Email: email, OTP: otp})
}

func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	return m.api.ForgotPassword(ctx, api.ForgotPasswordRequest{Email: email})
}

func (m *Manager) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(otp) == "" || newPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email, otp and new password are required")
	}
	return m.api.ResetPassword(ctx, api.ResetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword})
}

// Logout clears the in-memory identity and the persisted token/user pair.
// No server round-trip is involved; IsAuthenticated flips synchronously.
func (m *Manager) Logout(ctx context.Context) error {
	m.setUser(ctx, nil, "")
	return m.store.Del(ctx, session.KeyToken, session.KeyUser)
}

// Hydrate restores the session from the persisted store at startup. Corrupt
// entries are pruned and an expired token means starting logged out; neither
// is an error.
func (m *Manager) Hydrate(ctx context.Context) error {
	token, err := m.store.Get(ctx, session.KeyToken)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if expired(token) {
		m.warn(ctx, "stored token expired, starting logged out", nil)
		return m.store.Del(ctx, session.KeyToken, session.KeyUser)
	}

	var user types.User
	if err := session.LoadJSON(ctx, m.store, session.KeyUser, &user); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return m.store.Del(ctx, session.KeyToken)
		}
		return err
	}

	m.setUser(ctx, &user, token)
	return nil
}

// UpdateProfile pushes profile edits and mirrors the normalized result.
func (m *Manager) UpdateProfile(ctx context.Context, firstName, lastName, phone string) error {
	current := m.CurrentUser()
	if current == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}

	dto, err := m.api.UpdateProfile(ctx, current.ID, api.UpdateProfileRequest{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	})
	if err != nil {
		return err
	}

	user := dto.ToDomain()
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()

	if err := session.SaveJSON(ctx, m.store, session.KeyUser, user); err != nil {
		m.warn(ctx, "persisting user failed", err)
	}
	return nil
}

func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	current := m.CurrentUser()
	if current == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	if currentPassword == "" || newPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "current and new password are required")
	}
	return m.api.ChangePassword(ctx, current.ID, api.ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
}

func (m *Manager) setUser(ctx context.Context, user *types.User, token string) {
	m.mu.Lock()
	m.user = user
	m.token = token
	listeners := make([]UserListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, user)
	}
}

func (m *Manager) warn(ctx context.Context, msg string, err error) {
	if m.logg == nil {
		return
	}
	if err != nil {
		m.logg.Error(ctx, msg, err)
		return
	}
	m.logg.Warn(ctx, msg)
}

// expired peeks at the token's exp claim without verifying the signature;
// verification is the server's job. Tokens without claims are kept and left
// for the backend to judge.
func expired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
