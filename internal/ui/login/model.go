package login

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rejimde/terminal/internal/auth"
	"github.com/rejimde/terminal/internal/session"
	"github.com/rejimde/terminal/internal/theme"
)

// LoggedInMsg is dispatched when a login attempt succeeds.
type LoggedInMsg struct {
	Snapshot session.Snapshot
}

// loginFailedMsg carries a failed login attempt back to the form.
type loginFailedMsg struct {
	err error
}

// formBindings holds field values on the heap so huh's Value() pointers
// remain valid across Bubble Tea model copies.
type formBindings struct {
	username string
	password string
}

// Model is the Bubble Tea model for the login form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	authSvc    *auth.Service
	submitting bool
	errMsg     string
	width      int
	height     int
}

// New creates a login form model.
func New(authSvc *auth.Service, width, height int) Model {
	m := Model{
		fb:      &formBindings{},
		authSvc: authSvc,
		width:   width,
		height:  height,
	}
	m.form = m.buildForm()
	return m
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password),
		),
	)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFailedMsg:
		m.submitting = false
		m.errMsg = msg.err.Error()
		m.fb.password = ""
		m.form = m.buildForm()
		return m, m.form.Init()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	if m.submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""
		username, password := m.fb.username, m.fb.password
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			snap, err := m.authSvc.Login(ctx, username, password)
			if err != nil {
				return loginFailedMsg{err: err}
			}
			return LoggedInMsg{Snapshot: snap}
		}
	}

	return m, cmd
}

// View renders the login form centered in the terminal.
func (m Model) View() string {
	body := m.form.View()
	if m.submitting {
		body = theme.HelpStyle.Render("Signing in...")
	}
	if m.errMsg != "" {
		body = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.errMsg),
			"",
			body,
		)
	}

	panel := theme.PanelStyle.Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}
