// Package session owns the authenticated-user record, the bearer token
// and the login/logout/register/validate lifecycle. The Manager is the
// single source of truth for "who is the current user"; it is created
// once in main and injected into everything that needs it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/campus-core/portal-client/internal/events"
	"github.com/campus-core/portal-client/internal/gateway"
	"github.com/campus-core/portal-client/internal/models"
)

// View is a read-only copy of the session state, handed to the route
// guard and the views. Constructing View values directly is how the
// guard is unit-tested.
type View struct {
	IsAuthenticated bool
	IsLoading       bool
	User            *models.User
}

// Manager holds the session state machine. The token and user are set
// and cleared together; there is never a token without a user record or
// the other way around.
type Manager struct {
	api    gateway.AuthAPI
	store  *Store
	events events.Publisher
	logger *slog.Logger

	mu      sync.Mutex
	token   string
	user    *models.User
	loading bool
}

func NewManager(api gateway.AuthAPI, store *Store, publisher events.Publisher, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:    api,
		store:  store,
		events: publisher,
		logger: logger,
	}
}

// ===== READ ACCESSORS =====

// Token implements gateway.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// CurrentUser returns a copy of the current user, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyUser(m.user)
}

// View returns the state the guard and views render from.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return View{
		IsAuthenticated: m.user != nil,
		IsLoading:       m.loading,
		User:            copyUser(m.user),
	}
}

// ===== LIFECYCLE =====

// Bootstrap restores the session from the persisted snapshot at startup.
// With no snapshot the session stays empty. With one, the user is
// populated optimistically so the UI can render immediately, and the
// return value tells the caller to run Validate (asynchronously, so the
// stale render happens first). A snapshot that cannot be read is cleared
// and treated as absent; Bootstrap never fails.
func (m *Manager) Bootstrap() (needsValidation bool) {
	snap, err := m.store.Load()
	if err != nil {
		m.logger.Warn("discarding unreadable session snapshot", "error", err)
		if clearErr := m.store.Clear(); clearErr != nil {
			m.logger.Error("failed to clear session snapshot", "error", clearErr)
		}
		snap = nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if snap == nil {
		m.loading = false
		return false
	}

	m.token = snap.AccessToken
	m.user = snap.User
	m.loading = true
	return true
}

// Login authenticates against the backend. On success the token and user
// are stored together and persisted. On any failure the session is left
// exactly as it was and an *AuthError with a displayable message is
// returned. The loading flag is reset on every path before returning.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	m.setLoading(true)
	defer m.setLoading(false)

	resp, err := m.api.Login(ctx, username, password)
	if err != nil {
		return &AuthError{Message: gateway.ErrorMessage(err), Err: err}
	}

	user := resp.User
	if user.Role == "" {
		user.Role = models.ParseRole(resp.Role)
	}

	m.mu.Lock()
	m.token = resp.AccessToken
	m.user = user
	m.mu.Unlock()

	m.persist()
	m.publish(events.Event{Type: events.SessionAuthenticated, Username: user.Username})

	m.logger.Info("logged in", "username", user.Username, "role", string(user.Role))
	return nil
}

// Register creates an account and then logs in with the same credentials
// to establish a session, since registration alone does not authenticate.
// When the account is created but the auto-login fails, the returned
// *RegistrationError has AccountCreated set and tells the user to log in
// manually; the client does not retry on its own.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) error {
	m.setLoading(true)

	if _, err := m.api.Register(ctx, req); err != nil {
		m.setLoading(false)
		return &RegistrationError{Message: gateway.ErrorMessage(err), Err: err}
	}
	m.setLoading(false)

	if err := m.Login(ctx, req.Username, req.Password); err != nil {
		return &RegistrationError{
			Message:        "Your account was created, but signing in failed. Please log in manually.",
			AccountCreated: true,
			Err:            err,
		}
	}
	return nil
}

// Validate refreshes the user record from GET /auth/profile using the
// current token. Any failure (expired token, network) logs the session
// out. Validate is internal plumbing: callers log its error at most.
func (m *Manager) Validate(ctx context.Context) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		m.Logout()
		return fmt.Errorf("no session to validate")
	}

	// An already-expired JWT cannot pass the profile call; skip the
	// round-trip and log out directly.
	if tokenExpired(token, time.Now()) {
		m.logger.Info("persisted token is expired, logging out")
		m.Logout()
		return fmt.Errorf("token expired")
	}

	resp, err := m.api.Profile(ctx)
	if err != nil {
		m.logger.Info("session validation failed, logging out", "error", err)
		m.Logout()
		return fmt.Errorf("validating session: %w", err)
	}

	m.mu.Lock()
	// Refresh user fields only; the token is untouched.
	m.user = resp.UserDetails
	if m.user.Role == "" {
		m.user.Role = models.ParseRole(resp.LoggedInAs.Role)
	}
	m.loading = false
	m.mu.Unlock()

	m.persist()
	return nil
}

// Logout clears the token, the user and the persisted snapshot. It
// cannot fail and is safe to call repeatedly. Navigation back to the
// login view is the route guard's job, driven by the now-unauthenticated
// state; logout itself does not touch the UI.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.loading = false
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Error("failed to clear session snapshot", "error", err)
	}
}

// UpdateUser merges the given fields into the current user and
// re-persists the snapshot. Local optimistic edit only; no server call.
// A no-op when no user is logged in.
func (m *Manager) UpdateUser(patch models.UserPatch) {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	if patch.Email != nil {
		m.user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		m.user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		m.user.LastName = *patch.LastName
	}
	m.mu.Unlock()

	m.persist()
}

// Watch subscribes to session.invalidated events from the gateway and
// resets the in-memory state when one arrives. Runs until ctx ends.
func (m *Manager) Watch(ctx context.Context, bus *events.Bus) error {
	ch, err := bus.Subscribe(ctx, events.SessionInvalidated)
	if err != nil {
		return err
	}
	go func() {
		for event := range ch {
			m.logger.Info("session invalidated", "reason", event.Reason)
			m.Logout()
		}
	}()
	return nil
}

// ===== INTERNAL =====

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

// persist writes the current token/user pair to the snapshot store.
// Persistence is best-effort: a failed write degrades to re-login after
// restart, it does not fail the operation that triggered it.
func (m *Manager) persist() {
	m.mu.Lock()
	snap := &Snapshot{AccessToken: m.token, User: copyUser(m.user)}
	m.mu.Unlock()

	if snap.AccessToken == "" || snap.User == nil {
		return
	}
	if err := m.store.Save(snap); err != nil {
		m.logger.Error("failed to persist session snapshot", "error", err)
	}
}

func (m *Manager) publish(event events.Event) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(event); err != nil {
		m.logger.Error("failed to publish session event",
			"type", string(event.Type), "error", err)
	}
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}
