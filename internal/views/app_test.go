package views

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-core/portal-client/internal/guard"
	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/services"
	"github.com/campus-core/portal-client/internal/session"
)

// fakeSession is a scripted Session for driving the models.
type fakeSession struct {
	view     session.View
	loginErr error
}

func (f *fakeSession) View() session.View             { return f.view }
func (f *fakeSession) CurrentUser() *models.User      { return f.view.User }
func (f *fakeSession) Logout()                        { f.view = session.View{} }
func (f *fakeSession) Validate(context.Context) error { return nil }

func (f *fakeSession) Login(ctx context.Context, username, password string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.view = session.View{
		IsAuthenticated: true,
		User:            &models.User{ID: "u1", Username: username, Role: models.RoleStudent},
	}
	return nil
}

func TestResolve(t *testing.T) {
	student := session.View{
		IsAuthenticated: true,
		User:            &models.User{ID: "s1", Role: models.RoleStudent},
	}

	tests := []struct {
		name         string
		view         session.View
		path         string
		wantPath     string
		wantKind     guard.DecisionKind
		wantReturnTo string
	}{
		{
			name:         "unauthenticated dashboard request lands on login",
			view:         session.View{},
			path:         "/admin",
			wantPath:     guard.LoginPath,
			wantKind:     guard.Redirect,
			wantReturnTo: "/admin",
		},
		{
			name:     "login path always resolves",
			view:     session.View{},
			path:     guard.LoginPath,
			wantPath: guard.LoginPath,
			wantKind: guard.Allow,
		},
		{
			name:     "student entering the admin view lands home",
			view:     student,
			path:     "/admin",
			wantPath: guard.HomePath,
			wantKind: guard.Redirect,
		},
		{
			name:     "student entering own dashboard",
			view:     student,
			path:     "/student",
			wantPath: "/student",
			wantKind: guard.Allow,
		},
		{
			name:     "unknown path falls back to home",
			view:     student,
			path:     "/nonsense",
			wantPath: guard.HomePath,
			wantKind: guard.Allow,
		},
		{
			name: "validating session is pending, not bounced",
			view: session.View{
				IsAuthenticated: true,
				IsLoading:       true,
				User:            &models.User{ID: "s1", Role: models.RoleStudent},
			},
			path:     "/student",
			wantPath: "/student",
			wantKind: guard.Pending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, decision := resolve(tt.view, tt.path)
			if path != tt.wantPath {
				t.Errorf("resolve() path = %q, want %q", path, tt.wantPath)
			}
			if decision.Kind != tt.wantKind {
				t.Errorf("resolve() kind = %v, want %v", decision.Kind, tt.wantKind)
			}
			if decision.ReturnTo != tt.wantReturnTo {
				t.Errorf("resolve() returnTo = %q, want %q", decision.ReturnTo, tt.wantReturnTo)
			}
		})
	}
}

func TestHomePathFor(t *testing.T) {
	tests := []struct {
		role models.UserRole
		want string
	}{
		{models.RoleAdmin, "/admin"},
		{models.RoleTeacher, "/teacher"},
		{models.RoleStudent, "/student"},
	}
	for _, tt := range tests {
		user := &models.User{Role: tt.role}
		if got := homePathFor(user); got != tt.want {
			t.Errorf("homePathFor(%s) = %q, want %q", tt.role, got, tt.want)
		}
	}
	if got := homePathFor(nil); got != guard.LoginPath {
		t.Errorf("homePathFor(nil) = %q, want login", got)
	}
}

func TestLoginModelRequiresBothFields(t *testing.T) {
	m := newLoginModel(&fakeSession{})

	m, cmd := m.submit()
	if cmd != nil {
		t.Error("submit() issued a command with empty fields")
	}
	if m.errText == "" {
		t.Error("submit() with empty fields left no error text")
	}
}

func TestLoginModelShowsFailureInline(t *testing.T) {
	m := newLoginModel(&fakeSession{loginErr: errors.New("Invalid credentials")})
	m.username.SetValue("t1")
	m.password.SetValue("wrong")

	m, cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit() returned no command")
	}
	if !m.busy {
		t.Error("busy = false while the login call is in flight")
	}

	msg, ok := cmd().(loginResultMsg)
	if !ok {
		t.Fatalf("command produced %T, want loginResultMsg", cmd())
	}
	m, _ = m.Update(msg)
	if m.busy {
		t.Error("busy = true after the result arrived")
	}
	if m.errText != "Invalid credentials" {
		t.Errorf("errText = %q, want the login error", m.errText)
	}
}

func TestLoginModelClearsPasswordOnSuccess(t *testing.T) {
	m := newLoginModel(&fakeSession{})
	m.username.SetValue("s1")
	m.password.SetValue("secret1")

	m, cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit() returned no command")
	}
	m, _ = m.Update(cmd().(loginResultMsg))

	if m.errText != "" {
		t.Errorf("errText = %q after success", m.errText)
	}
	if m.password.Value() != "" {
		t.Error("password field not cleared after success")
	}
}

func TestAppStartsOnLoginWhenUnauthenticated(t *testing.T) {
	app := newTestApp(&fakeSession{})
	if app.path != guard.LoginPath {
		t.Errorf("initial path = %q, want login", app.path)
	}
}

func TestAppNavigatesToRoleHomeAfterLogin(t *testing.T) {
	sessions := &fakeSession{}
	app := newTestApp(sessions)

	if err := sessions.Login(context.Background(), "s1", "pw"); err != nil {
		t.Fatal(err)
	}
	model, _ := app.Update(loginResultMsg{})
	app = model.(App)

	if app.path != "/student" {
		t.Errorf("path after login = %q, want /student", app.path)
	}
}

func TestAppReturnsToLoginOnInvalidation(t *testing.T) {
	sessions := &fakeSession{}
	if err := sessions.Login(context.Background(), "s1", "pw"); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(sessions)
	if app.path != "/student" {
		t.Fatalf("initial path = %q, want /student", app.path)
	}

	sessions.Logout() // the manager reset state when the event fired
	model, _ := app.Update(sessionInvalidatedMsg{reason: "token rejected by server"})
	app = model.(App)

	if app.path != guard.LoginPath {
		t.Errorf("path after invalidation = %q, want login", app.path)
	}
	if app.login.notice == "" {
		t.Error("no notice shown after invalidation")
	}
}

func newTestApp(sessions Session) App {
	return NewApp(AppConfig{
		Sessions: sessions,
		Services: stubServices{},
	})
}

// stubServices satisfies services.ServiceManager with nil role services;
// the navigation tests never load dashboard data.
type stubServices struct{}

func (stubServices) Admin() services.AdminService     { return nil }
func (stubServices) Teacher() services.TeacherService { return nil }
func (stubServices) Student() services.StudentService { return nil }
