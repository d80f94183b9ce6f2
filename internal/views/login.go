package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginResultMsg carries the outcome of an asynchronous login attempt.
type loginResultMsg struct {
	err error
}

// loginModel is the username/password form. A failed attempt shows the
// displayable error inline and leaves both fields editable.
type loginModel struct {
	sessions Session

	username textinput.Model
	password textinput.Model
	focused  int
	busy     bool
	errText  string
	notice   string
}

func newLoginModel(sessions Session) loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 50
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 100

	return loginModel{
		sessions: sessions,
		username: username,
		password: password,
	}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.password.SetValue("")
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focused = (m.focused + 1) % 2
			if m.focused == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.username.Blur()
				m.password.Focus()
			}
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		m.errText = "Username and password are required."
		return m, nil
	}

	m.busy = true
	m.errText = ""
	sessions := m.sessions
	return m, func() tea.Msg {
		return loginResultMsg{err: sessions.Login(context.Background(), username, password)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Campus Portal — Sign In"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Username") + "\n")
	b.WriteString(m.username.View() + "\n\n")
	b.WriteString(labelStyle.Render("Password") + "\n")
	b.WriteString(m.password.View() + "\n")

	if m.busy {
		b.WriteString("\n" + labelStyle.Render("Signing in..."))
	}
	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render(m.errText))
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice))
	}

	b.WriteString(helpStyle.Render("\ntab: switch field • enter: sign in • ctrl+c: quit"))
	return boxStyle.Render(b.String())
}
