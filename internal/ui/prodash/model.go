// Package prodash is the expert (rejimde_pro) dashboard: expert
// notifications plus recent profile views.
package prodash

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/feed"
	"github.com/rejimde/terminal/internal/keys"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/theme"
)

// ProfileViewsMsg carries the expert's recent profile visitors.
type ProfileViewsMsg struct {
	Views []model.ProfileView
}

// Model is the pro dashboard view.
type Model struct {
	client *api.Client
	feed   *feed.NotificationFeed
	keys   *keys.KeyMap
	page   model.NotificationPage
	views  []model.ProfileView
	width  int
	height int
}

// New creates the pro dashboard backed by the expert notification feed.
func New(client *api.Client, expertFeed *feed.NotificationFeed, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: client,
		feed:   expertFeed,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init loads the profile views; the expert feed is started by the app.
func (m Model) Init() tea.Cmd {
	return m.loadProfileViews()
}

func (m Model) loadProfileViews() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		views, err := m.client.ProfileViews(ctx)
		if err != nil {
			return ProfileViewsMsg{}
		}
		return ProfileViewsMsg{Views: views}
	}
}

// SetPage replaces the expert notification snapshot.
func (m *Model) SetPage(page model.NotificationPage) {
	m.page = page
}

// Update handles messages for the pro dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProfileViewsMsg:
		m.views = msg.Views
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.MarkAllRead):
			return m, m.feed.MarkReadCmd()

		case key.Matches(msg, m.keys.Refresh):
			m.feed.Refresh()
			return m, m.loadProfileViews()
		}
	}

	return m, nil
}

// View renders the pro dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.HeaderStyle.Render("Expert notifications"))
	fmt.Fprintf(&b, "  %d unread\n\n", m.page.CountUnread())

	if len(m.page.Notifications) == 0 {
		b.WriteString(theme.HelpStyle.Render("Nothing new."))
		b.WriteString("\n")
	}
	for _, n := range m.page.Notifications {
		title := n.Title
		if !n.Read {
			title = theme.UnreadStyle.Render("● " + title)
		}
		fmt.Fprintf(&b, "%s %s\n",
			theme.CategoryStyle(n.Category).Render(string(n.Category)),
			title,
		)
	}

	b.WriteString("\n")
	b.WriteString(theme.HeaderStyle.Render("Recent profile views"))
	b.WriteString("\n")
	if len(m.views) == 0 {
		b.WriteString(theme.HelpStyle.Render("No visits yet."))
	}
	for _, view := range m.views {
		name := view.ViewerName
		if view.IsAnonymous {
			name = "Someone"
		}
		fmt.Fprintf(&b, "  %s visited %s\n",
			name,
			theme.HelpStyle.Render(view.ViewedAt.Format("2 Jan 15:04")),
		)
	}

	return theme.PanelStyle.Width(m.width - 4).Render(b.String())
}
