// Package views is the terminal UI for the portal. The App model owns
// navigation: every route change goes through the guard, so a view can
// never render for a session that is not allowed to see it.
package views

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campus-core/portal-client/internal/events"
	"github.com/campus-core/portal-client/internal/guard"
	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/services"
	"github.com/campus-core/portal-client/internal/session"
)

// Session is the slice of the session manager the views depend on.
type Session interface {
	View() session.View
	CurrentUser() *models.User
	Login(ctx context.Context, username, password string) error
	Logout()
	Validate(ctx context.Context) error
}

// sessionValidatedMsg reports that the startup re-validation finished.
type sessionValidatedMsg struct {
	err error
}

// sessionInvalidatedMsg arrives when the gateway published a
// session.invalidated event; the UI drops to the login view.
type sessionInvalidatedMsg struct {
	reason string
}

// AppConfig wires the App model.
type AppConfig struct {
	Sessions Session
	Services services.ServiceManager
	Logger   *slog.Logger
	// Invalidations delivers session.invalidated events from the bus.
	// Nil disables UI-side invalidation handling.
	Invalidations <-chan events.Event
	// NeedsValidation is Bootstrap's return value: render the restored
	// session immediately, then reconcile against the server.
	NeedsValidation bool
}

type App struct {
	sessions      Session
	services      services.ServiceManager
	logger        *slog.Logger
	invalidations <-chan events.Event

	path            string
	returnTo        string
	needsValidation bool

	login   loginModel
	admin   adminModel
	teacher teacherModel
	student studentModel
}

func NewApp(cfg AppConfig) App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := App{
		sessions:        cfg.Sessions,
		services:        cfg.Services,
		logger:          logger,
		invalidations:   cfg.Invalidations,
		needsValidation: cfg.NeedsValidation,
		login:           newLoginModel(cfg.Sessions),
		admin:           newAdminModel(cfg.Services.Admin()),
		teacher:         newTeacherModel(cfg.Services.Teacher()),
		student:         newStudentModel(cfg.Services.Student()),
	}

	view := cfg.Sessions.View()
	app.path, _ = resolve(view, homePathFor(view.User))
	return app
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.login.Init()}

	if a.needsValidation {
		cmds = append(cmds, a.validateCmd())
	} else if a.sessions.View().IsAuthenticated {
		cmds = append(cmds, a.enterCmd(a.path))
	}
	if a.invalidations != nil {
		cmds = append(cmds, a.waitForInvalidation())
	}
	return tea.Batch(cmds...)
}

func (a App) validateCmd() tea.Cmd {
	sessions := a.sessions
	return func() tea.Msg {
		return sessionValidatedMsg{err: sessions.Validate(context.Background())}
	}
}

func (a App) waitForInvalidation() tea.Cmd {
	ch := a.invalidations
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return sessionInvalidatedMsg{reason: event.Reason}
	}
}

// enterCmd kicks off the data load for the dashboard at path.
func (a App) enterCmd(path string) tea.Cmd {
	switch path {
	case "/admin":
		return a.admin.Init()
	case "/teacher":
		return a.teacher.Init()
	case "/student":
		return a.student.Init()
	default:
		return nil
	}
}

// navigate resolves path through the guard and moves there, remembering
// the requested path when the guard bounces to login.
func (a *App) navigate(path string) tea.Cmd {
	view := a.sessions.View()
	resolved, decision := resolve(view, path)
	if decision.Kind == guard.Redirect && decision.ReturnTo != "" {
		a.returnTo = decision.ReturnTo
	}
	if a.path == resolved {
		return nil
	}
	a.path = resolved
	return a.enterCmd(resolved)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "l":
			// Logout shortcut, only meaningful outside the login form.
			if a.path != guard.LoginPath && a.sessions.View().IsAuthenticated {
				a.sessions.Logout()
				a.login.notice = "Signed out."
				return a, a.navigate(guard.LoginPath)
			}
		}

	case sessionValidatedMsg:
		if msg.err != nil {
			a.logger.Debug("startup validation failed", "error", msg.err)
			a.login.notice = "Your session expired. Please sign in again."
			cmd := a.navigate(guard.LoginPath)
			return a, cmd
		}
		view := a.sessions.View()
		cmd := a.navigate(homePathFor(view.User))
		if cmd == nil {
			// Already on the right view; the pending state just lifted,
			// so the dashboard still needs its data.
			cmd = a.enterCmd(a.path)
		}
		return a, cmd

	case sessionInvalidatedMsg:
		a.logger.Info("session invalidated, returning to login", "reason", msg.reason)
		a.login.notice = "Your session expired. Please sign in again."
		cmds := []tea.Cmd{a.navigate(guard.LoginPath)}
		if a.invalidations != nil {
			cmds = append(cmds, a.waitForInvalidation())
		}
		return a, tea.Batch(cmds...)

	case loginResultMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.err == nil {
			target := a.returnTo
			a.returnTo = ""
			if target == "" || target == guard.LoginPath {
				target = homePathFor(a.sessions.CurrentUser())
			}
			return a, tea.Batch(cmd, a.navigate(target))
		}
		return a, cmd

	case adminDataMsg:
		var cmd tea.Cmd
		a.admin, cmd = a.admin.Update(msg)
		return a, cmd
	case teacherDataMsg:
		var cmd tea.Cmd
		a.teacher, cmd = a.teacher.Update(msg)
		return a, cmd
	case studentDataMsg:
		var cmd tea.Cmd
		a.student, cmd = a.student.Update(msg)
		return a, cmd
	}

	// Everything else goes to the active view.
	var cmd tea.Cmd
	switch a.path {
	case guard.LoginPath:
		a.login, cmd = a.login.Update(msg)
	case "/admin":
		a.admin, cmd = a.admin.Update(msg)
	case "/teacher":
		a.teacher, cmd = a.teacher.Update(msg)
	case "/student":
		a.student, cmd = a.student.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	view := a.sessions.View()
	if view.IsLoading && a.path != guard.LoginPath {
		return boxStyle.Render(labelStyle.Render("Authenticating..."))
	}

	switch a.path {
	case guard.LoginPath:
		return a.login.View()
	case "/admin":
		return a.admin.View()
	case "/teacher":
		return a.teacher.View()
	case "/student":
		return a.student.View()
	default:
		// The bare home path only shows up transiently before the
		// role-specific landing resolves.
		return boxStyle.Render(labelStyle.Render("Loading portal..."))
	}
}
