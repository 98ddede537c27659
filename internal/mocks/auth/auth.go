package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.Identity     = (*MockIdentity)(nil)
	_ ports.SSOLinker    = (*MockIdentity)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	DefaultUser domainauth.Identity

	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: domainauth.Identity{
			UserID: "sso-user-1",
			Email:  "recruiter@example.com",
			Name:   "Mock Recruiter",
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	return authURL, fmt.Sprintf("state-%d", m.callCount), fmt.Sprintf("nonce-%d", m.callCount), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	user := m.DefaultUser
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if id == "" || !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// MockIdentity is an in-memory identity backend. Passwords are kept in clear
// text; tokens are "token-<userID>-<n>".
type MockIdentity struct {
	mu     sync.Mutex
	users  map[string]mockUser // by lowercase email
	tokens map[string]string   // token -> user ID
	seq    int

	// RequireConfirmation makes SignUp return no session.
	RequireConfirmation bool
	// CurrentUserErr, when set, is returned by every CurrentUser call.
	CurrentUserErr error
	// TokenTTL controls session expiry; defaults to one hour.
	TokenTTL time.Duration

	SignOutCalls     int
	CurrentUserCalls int
}

type mockUser struct {
	id       string
	email    string
	password string
}

// NewMockIdentity creates an empty identity backend.
func NewMockIdentity() *MockIdentity {
	return &MockIdentity{
		users:  make(map[string]mockUser),
		tokens: make(map[string]string),
	}
}

// AddUser registers a user and returns its ID.
func (m *MockIdentity) AddUser(email, password string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addUserLocked(email, password)
}

func (m *MockIdentity) addUserLocked(email, password string) string {
	m.seq++
	id := fmt.Sprintf("user-%d", m.seq)
	m.users[strings.ToLower(email)] = mockUser{id: id, email: email, password: password}
	return id
}

func (m *MockIdentity) issueLocked(u mockUser, provider domainauth.Provider) domainauth.Session {
	m.seq++
	token := fmt.Sprintf("token-%s-%d", u.id, m.seq)
	m.tokens[token] = u.id
	ttl := m.TokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return domainauth.Session{
		UserID:      u.id,
		Email:       u.email,
		Provider:    provider,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(ttl),
	}
}

func (m *MockIdentity) SignIn(_ context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(creds.Email)]
	if !ok || u.password != creds.Password {
		return domainauth.Session{}, errors.New("Invalid login credentials")
	}
	return m.issueLocked(u, domainauth.ProviderPassword), nil
}

func (m *MockIdentity) SignUp(_ context.Context, creds domainauth.Credentials) (domainauth.SignUpResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[strings.ToLower(creds.Email)]; exists {
		return domainauth.SignUpResult{}, errors.New("User already registered")
	}
	id := m.addUserLocked(creds.Email, creds.Password)
	res := domainauth.SignUpResult{User: domainauth.User{ID: id, Email: creds.Email}}
	if m.RequireConfirmation {
		res.ConfirmationRequired = true
		return res, nil
	}
	sess := m.issueLocked(m.users[strings.ToLower(creds.Email)], domainauth.ProviderPassword)
	res.Session = &sess
	return res, nil
}

func (m *MockIdentity) SignOut(_ context.Context, sess domainauth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignOutCalls++
	delete(m.tokens, sess.AccessToken)
	return nil
}

func (m *MockIdentity) CurrentUser(_ context.Context, accessToken string) (domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentUserCalls++
	if m.CurrentUserErr != nil {
		return domainauth.User{}, m.CurrentUserErr
	}
	id, ok := m.tokens[accessToken]
	if !ok {
		return domainauth.User{}, ports.ErrNoSession
	}
	for _, u := range m.users {
		if u.id == id {
			return domainauth.User{ID: u.id, Email: u.email}, nil
		}
	}
	return domainauth.User{}, ports.ErrNoSession
}

// RevokeAll invalidates every issued token.
func (m *MockIdentity) RevokeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = make(map[string]string)
}

func (m *MockIdentity) LinkIdentity(_ context.Context, id domainauth.Identity) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(id.Email)]
	if !ok {
		m.addUserLocked(id.Email, "")
		u = m.users[strings.ToLower(id.Email)]
	}
	return m.issueLocked(u, domainauth.ProviderSSO), nil
}
