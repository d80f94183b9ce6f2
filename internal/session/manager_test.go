package session

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/campus-core/portal-client/internal/events"
	"github.com/campus-core/portal-client/internal/gateway"
	"github.com/campus-core/portal-client/internal/models"
)

// stubAuthAPI is a canned gateway.AuthAPI for driving the manager.
type stubAuthAPI struct {
	loginResp    *models.LoginResponse
	loginErr     error
	registerResp *models.RegisterResponse
	registerErr  error
	profileResp  *models.ProfileResponse
	profileErr   error

	loginCalls   int
	profileCalls int
}

func (s *stubAuthAPI) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	s.loginCalls++
	return s.loginResp, s.loginErr
}

func (s *stubAuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	return s.registerResp, s.registerErr
}

func (s *stubAuthAPI) Profile(ctx context.Context) (*models.ProfileResponse, error) {
	s.profileCalls++
	return s.profileResp, s.profileErr
}

func teacherT1() *models.User {
	return &models.User{ID: "t1", Username: "t1", Role: models.RoleTeacher}
}

func newTestManager(t *testing.T, api gateway.AuthAPI) (*Manager, *Store, *events.MockPublisher) {
	t.Helper()
	store := testStore(t)
	publisher := events.NewMockPublisher()
	logger := slog.New(slog.DiscardHandler)
	return NewManager(api, store, publisher, logger), store, publisher
}

func TestLoginSuccess(t *testing.T) {
	api := &stubAuthAPI{
		loginResp: &models.LoginResponse{
			AccessToken: "abc",
			Role:        "teacher",
			User:        teacherT1(),
		},
	}
	m, store, publisher := newTestManager(t, api)

	if err := m.Login(context.Background(), "t1", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if !m.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after successful login")
	}
	if m.IsLoading() {
		t.Error("IsLoading() = true after login returned")
	}
	if m.Token() != "abc" {
		t.Errorf("Token() = %q, want abc", m.Token())
	}
	user := m.CurrentUser()
	if user == nil || user.ID != "t1" || user.Role != models.RoleTeacher {
		t.Errorf("CurrentUser() = %+v, want t1/teacher", user)
	}

	snap, err := store.Load()
	if err != nil || snap == nil {
		t.Fatalf("snapshot after login = (%+v, %v), want persisted", snap, err)
	}
	if snap.AccessToken != "abc" || snap.User.ID != "t1" {
		t.Errorf("snapshot = %+v, want token abc and user t1", snap)
	}

	published := publisher.PublishedEvents()
	if len(published) != 1 || published[0].Type != events.SessionAuthenticated {
		t.Errorf("published events = %+v, want one session.authenticated", published)
	}
}

func TestLoginRoleFallsBackToTopLevelField(t *testing.T) {
	// Some list endpoints omit the role on the embedded user; the login
	// response duplicates it at the top level.
	api := &stubAuthAPI{
		loginResp: &models.LoginResponse{
			AccessToken: "abc",
			Role:        "admin",
			User:        &models.User{ID: "a1", Username: "a1"},
		},
	}
	m, _, _ := newTestManager(t, api)

	if err := m.Login(context.Background(), "a1", "pw"); err != nil {
		t.Fatal(err)
	}
	if got := m.CurrentUser().Role; got != models.RoleAdmin {
		t.Errorf("role = %q, want admin", got)
	}
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	api := &stubAuthAPI{
		loginErr: &gateway.APIError{StatusCode: 401, Message: "Invalid credentials"},
	}
	m, store, publisher := newTestManager(t, api)

	err := m.Login(context.Background(), "t1", "wrong")
	if err == nil {
		t.Fatal("Login() error = nil for rejected credentials")
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Login() error type = %T, want *AuthError", err)
	}
	if authErr.Message == "" {
		t.Error("AuthError.Message is empty, want displayable text")
	}
	if authErr.Message != "Invalid credentials" {
		t.Errorf("AuthError.Message = %q, want the server message", authErr.Message)
	}

	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed login")
	}
	if m.IsLoading() {
		t.Error("IsLoading() = true after failed login returned")
	}
	if m.Token() != "" {
		t.Errorf("Token() = %q after failed login, want empty", m.Token())
	}

	if snap, _ := store.Load(); snap != nil {
		t.Errorf("snapshot = %+v after failed login, want none", snap)
	}
	if published := publisher.PublishedEvents(); len(published) != 0 {
		t.Errorf("published events = %+v after failed login, want none", published)
	}
}

func TestLogout(t *testing.T) {
	api := &stubAuthAPI{
		loginResp: &models.LoginResponse{AccessToken: "abc", Role: "teacher", User: teacherT1()},
	}
	m, store, _ := newTestManager(t, api)

	if err := m.Login(context.Background(), "t1", "pw"); err != nil {
		t.Fatal(err)
	}

	m.Logout()

	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	if m.Token() != "" {
		t.Errorf("Token() = %q after logout, want empty", m.Token())
	}
	if snap, _ := store.Load(); snap != nil {
		t.Errorf("snapshot = %+v after logout, want removed", snap)
	}

	// Repeated logout is a no-op, not an error.
	m.Logout()
	m.Logout()
	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after repeated logout")
	}
}

func TestBootstrapWithoutSnapshot(t *testing.T) {
	m, _, _ := newTestManager(t, &stubAuthAPI{})

	if m.Bootstrap() {
		t.Error("Bootstrap() = true with no snapshot, want false")
	}
	if m.IsAuthenticated() || m.IsLoading() {
		t.Error("session not empty after bootstrap with no snapshot")
	}
}

func TestBootstrapRestoresSnapshotThenValidates(t *testing.T) {
	stale := teacherT1()
	fresh := teacherT1()
	fresh.Email = "t1@example.com"

	api := &stubAuthAPI{
		profileResp: &models.ProfileResponse{
			LoggedInAs:  models.ProfileIdentity{Username: "t1", Role: "teacher"},
			UserDetails: fresh,
		},
	}
	m, store, _ := newTestManager(t, api)
	if err := store.Save(&Snapshot{AccessToken: "abc", User: stale}); err != nil {
		t.Fatal(err)
	}

	if !m.Bootstrap() {
		t.Fatal("Bootstrap() = false with a snapshot present, want true")
	}

	// Stale render first: authenticated immediately, but still validating.
	view := m.View()
	if !view.IsAuthenticated {
		t.Error("IsAuthenticated = false right after bootstrap")
	}
	if !view.IsLoading {
		t.Error("IsLoading = false right after bootstrap, want true until validated")
	}

	if err := m.Validate(context.Background()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	view = m.View()
	if !view.IsAuthenticated || view.IsLoading {
		t.Errorf("view after validate = %+v, want authenticated and settled", view)
	}
	if view.User.Email != "t1@example.com" {
		t.Errorf("user not refreshed from profile: %+v", view.User)
	}
	if m.Token() != "abc" {
		t.Errorf("Token() = %q after validate, want the restored token", m.Token())
	}
}

func TestBootstrapClearsCorruptSnapshot(t *testing.T) {
	m, store, _ := newTestManager(t, &stubAuthAPI{})
	if err := writeRaw(store, "{broken"); err != nil {
		t.Fatal(err)
	}

	if m.Bootstrap() {
		t.Error("Bootstrap() = true for corrupt snapshot, want false")
	}
	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after corrupt snapshot")
	}
	if snap, err := store.Load(); err != nil || snap != nil {
		t.Errorf("corrupt snapshot not cleared: (%+v, %v)", snap, err)
	}
}

func TestValidateFailureLogsOut(t *testing.T) {
	stale := teacherT1()
	api := &stubAuthAPI{
		profileErr: &gateway.APIError{StatusCode: 401, Detail: "Token has expired"},
	}
	m, store, _ := newTestManager(t, api)
	if err := store.Save(&Snapshot{AccessToken: "abc", User: stale}); err != nil {
		t.Fatal(err)
	}

	m.Bootstrap()
	if err := m.Validate(context.Background()); err == nil {
		t.Fatal("Validate() error = nil for rejected token")
	}

	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed validation")
	}
	if snap, _ := store.Load(); snap != nil {
		t.Errorf("snapshot = %+v after failed validation, want removed", snap)
	}
}

func TestValidateSkipsProfileForExpiredToken(t *testing.T) {
	api := &stubAuthAPI{}
	m, store, _ := newTestManager(t, api)
	expired := signedToken(t, time.Now().Add(-time.Hour))
	if err := store.Save(&Snapshot{AccessToken: expired, User: teacherT1()}); err != nil {
		t.Fatal(err)
	}

	m.Bootstrap()
	if err := m.Validate(context.Background()); err == nil {
		t.Fatal("Validate() error = nil for expired token")
	}

	if api.profileCalls != 0 {
		t.Errorf("profile called %d times for a locally-expired token, want 0", api.profileCalls)
	}
	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after expired-token validation")
	}
}

func TestValidateWithoutSessionFails(t *testing.T) {
	m, _, _ := newTestManager(t, &stubAuthAPI{})

	if err := m.Validate(context.Background()); err == nil {
		t.Error("Validate() error = nil with no session")
	}
}

func TestRegisterLogsInAfterward(t *testing.T) {
	api := &stubAuthAPI{
		registerResp: &models.RegisterResponse{Message: "User registered successfully"},
		loginResp:    &models.LoginResponse{AccessToken: "abc", Role: "student", User: &models.User{ID: "s1", Username: "s1", Role: models.RoleStudent}},
	}
	m, _, _ := newTestManager(t, api)

	err := m.Register(context.Background(), models.RegisterRequest{
		Username: "s1", Password: "secret1", Email: "s1@example.com",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !m.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after register, want auto-login")
	}
	if api.loginCalls != 1 {
		t.Errorf("login called %d times during register, want 1", api.loginCalls)
	}
}

func TestRegisterFailure(t *testing.T) {
	api := &stubAuthAPI{
		registerErr: &gateway.APIError{StatusCode: 409, Message: "Username already exists"},
	}
	m, _, _ := newTestManager(t, api)

	err := m.Register(context.Background(), models.RegisterRequest{
		Username: "taken", Password: "secret1", Email: "taken@example.com",
	})

	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("Register() error type = %T, want *RegistrationError", err)
	}
	if regErr.AccountCreated {
		t.Error("AccountCreated = true when registration itself failed")
	}
	if regErr.Message != "Username already exists" {
		t.Errorf("Message = %q, want the server message", regErr.Message)
	}
	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed registration")
	}
}

func TestRegisterPartialSuccess(t *testing.T) {
	// Account created, auto-login rejected. The user must be told to log
	// in manually instead of re-registering.
	api := &stubAuthAPI{
		registerResp: &models.RegisterResponse{Message: "User registered successfully"},
		loginErr:     errors.New("connection refused"),
	}
	m, _, _ := newTestManager(t, api)

	err := m.Register(context.Background(), models.RegisterRequest{
		Username: "s1", Password: "secret1", Email: "s1@example.com",
	})

	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("Register() error type = %T, want *RegistrationError", err)
	}
	if !regErr.AccountCreated {
		t.Error("AccountCreated = false when the account was created")
	}
	if regErr.Message == "" {
		t.Error("Message is empty, want a log-in-manually hint")
	}
	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after partial registration")
	}
	if m.IsLoading() {
		t.Error("IsLoading() = true after Register returned")
	}
}

func TestUpdateUser(t *testing.T) {
	api := &stubAuthAPI{
		loginResp: &models.LoginResponse{AccessToken: "abc", Role: "teacher", User: teacherT1()},
	}
	m, store, _ := newTestManager(t, api)
	if err := m.Login(context.Background(), "t1", "pw"); err != nil {
		t.Fatal(err)
	}

	email := "new@example.com"
	first := "Terry"
	m.UpdateUser(models.UserPatch{Email: &email, FirstName: &first})

	user := m.CurrentUser()
	if user.Email != email || user.FirstName != first {
		t.Errorf("CurrentUser() = %+v, want patched email and first name", user)
	}
	if user.Username != "t1" {
		t.Errorf("Username = %q, want untouched t1", user.Username)
	}

	snap, err := store.Load()
	if err != nil || snap == nil {
		t.Fatalf("snapshot after UpdateUser = (%+v, %v)", snap, err)
	}
	if snap.User.Email != email {
		t.Errorf("persisted email = %q, want %q", snap.User.Email, email)
	}
}

func TestUpdateUserWithoutSessionIsNoop(t *testing.T) {
	m, store, _ := newTestManager(t, &stubAuthAPI{})

	email := "x@example.com"
	m.UpdateUser(models.UserPatch{Email: &email})

	if m.IsAuthenticated() {
		t.Error("UpdateUser on empty session created a user")
	}
	if snap, _ := store.Load(); snap != nil {
		t.Errorf("UpdateUser on empty session persisted %+v", snap)
	}
}

func TestWatchLogsOutOnInvalidation(t *testing.T) {
	api := &stubAuthAPI{
		loginResp: &models.LoginResponse{AccessToken: "abc", Role: "teacher", User: teacherT1()},
	}
	m, _, _ := newTestManager(t, api)
	if err := m.Login(context.Background(), "t1", "pw"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus(slog.New(slog.DiscardHandler))
	defer bus.Close()

	if err := m.Watch(ctx, bus); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := bus.Publish(events.Event{Type: events.SessionInvalidated, Reason: "token rejected by server"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.After(2 * time.Second)
	for m.IsAuthenticated() {
		select {
		case <-deadline:
			t.Fatal("session still authenticated after invalidation event")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// CurrentUser hands out copies so callers cannot mutate shared state.
func TestCurrentUserIsACopy(t *testing.T) {
	api := &stubAuthAPI{
		loginResp: &models.LoginResponse{AccessToken: "abc", Role: "teacher", User: teacherT1()},
	}
	m, _, _ := newTestManager(t, api)
	if err := m.Login(context.Background(), "t1", "pw"); err != nil {
		t.Fatal(err)
	}

	m.CurrentUser().Username = "mutated"
	if m.CurrentUser().Username != "t1" {
		t.Error("mutating the returned user leaked into the session")
	}
}
