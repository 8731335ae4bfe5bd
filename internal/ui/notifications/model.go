package notifications

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rejimde/terminal/internal/feed"
	"github.com/rejimde/terminal/internal/keys"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/theme"
)

// Item wraps a notification for the bubbles list.
type Item struct {
	Notification model.Notification
}

// FilterValue implements list.Item.
func (i Item) FilterValue() string { return i.Notification.Title }

// Delegate renders notification rows.
type Delegate struct{}

func (d Delegate) Height() int                             { return 2 }
func (d Delegate) Spacing() int                            { return 0 }
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d Delegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(Item)
	if !ok {
		return
	}
	n := item.Notification

	title := n.Title
	if !n.Read {
		title = theme.UnreadStyle.Render("● " + title)
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.CategoryStyle(n.Category).Render(string(n.Category)),
		" ",
		title,
	)
	meta := theme.HelpStyle.Render(n.CreatedAt.Format("2 Jan 15:04"))

	style := theme.ListItemStyle
	if index == m.Index() {
		style = theme.SelectedItemStyle
	}
	fmt.Fprint(w, style.Render(lipgloss.JoinVertical(lipgloss.Left, line, meta)))
}

// Model is the notification list view.
type Model struct {
	list   list.Model
	feed   *feed.NotificationFeed
	keys   *keys.KeyMap
	stale  bool
	width  int
	height int
}

// New creates the notification view backed by the polled feed.
func New(f *feed.NotificationFeed, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		feed:   f,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetPage replaces the list contents with a fresh snapshot.
func (m *Model) SetPage(page model.NotificationPage, stale bool) tea.Cmd {
	m.stale = stale
	items := make([]list.Item, len(page.Notifications))
	for i, n := range page.Notifications {
		items[i] = Item{Notification: n}
	}
	return m.list.SetItems(items)
}

// Update handles messages for the notification view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.MarkRead):
			item, ok := m.list.SelectedItem().(Item)
			if !ok || item.Notification.Read {
				return m, nil
			}
			return m, m.feed.MarkReadCmd(item.Notification.ID)

		case key.Matches(msg, m.keys.MarkAllRead):
			return m, m.feed.MarkReadCmd()

		case key.Matches(msg, m.keys.Refresh):
			m.feed.Refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notification list.
func (m Model) View() string {
	view := m.list.View()
	if m.stale {
		view = lipgloss.JoinVertical(lipgloss.Left,
			theme.StaleStyle.Render("showing cached data — backend unreachable"),
			view,
		)
	}
	return view
}
