package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rejimde/terminal/internal/feed"
	"github.com/rejimde/terminal/internal/keys"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/theme"
)

// filters are the event-type filters cycled by the filter key. The
// empty string means "everything".
var filters = []string{
	"",
	model.EventDailyLogin,
	model.EventExerciseComplete,
	model.EventTaskComplete,
	model.EventBadgeEarned,
}

// Model is the activity ledger view.
type Model struct {
	feed        *feed.ActivityFeed
	keys        *keys.KeyMap
	filterIndex int
	loading     bool
	stale       bool
	width       int
	height      int
}

// New creates the activity view.
func New(f *feed.ActivityFeed, k *keys.KeyMap, width, height int) Model {
	return Model{
		feed:   f,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.feed.LoadCmd()
}

// Update handles messages for the activity view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feed.ActivityMsg:
		m.loading = false
		m.stale = msg.Stale
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.LoadMore):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.feed.LoadMoreCmd()

		case key.Matches(msg, m.keys.CycleFilter):
			m.filterIndex = (m.filterIndex + 1) % len(filters)
			m.loading = true
			return m, m.feed.SetFilterCmd(filters[m.filterIndex])

		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.feed.LoadCmd()
		}
	}

	return m, nil
}

// View renders the day-grouped ledger.
func (m Model) View() string {
	var b strings.Builder

	filterLabel := filters[m.filterIndex]
	if filterLabel == "" {
		filterLabel = "all events"
	}
	fmt.Fprintf(&b, "%s\n\n", theme.HelpStyle.Render("filter: "+filterLabel))

	if m.stale {
		b.WriteString(theme.StaleStyle.Render("showing cached data — backend unreachable"))
		b.WriteString("\n\n")
	}

	groups := m.feed.Groups(time.Now())
	if len(groups) == 0 {
		b.WriteString(theme.HelpStyle.Render("No activity yet."))
	}

	for _, group := range groups {
		b.WriteString(theme.HeaderStyle.Render(group.Label))
		b.WriteString("\n")
		for _, item := range group.Items {
			points := ""
			if item.Points != 0 {
				points = fmt.Sprintf("%+d pts", item.Points)
			}
			fmt.Fprintf(&b, "  %s %s %s\n",
				theme.HelpStyle.Render(item.CreatedAt.Format("15:04")),
				eventLabel(item.EventType),
				points,
			)
		}
		b.WriteString("\n")
	}

	_, hasMore := m.feed.State()
	switch {
	case m.loading:
		b.WriteString(theme.HelpStyle.Render("loading..."))
	case hasMore:
		b.WriteString(theme.HelpStyle.Render("press m for more"))
	default:
		b.WriteString(theme.HelpStyle.Render("end of activity"))
	}

	return theme.PanelStyle.Width(m.width - 4).Render(b.String())
}

// eventLabel maps event types to display labels.
func eventLabel(eventType string) string {
	switch eventType {
	case model.EventDailyLogin:
		return "Daily login"
	case model.EventExerciseComplete:
		return "Exercise completed"
	case model.EventTaskComplete:
		return "Task completed"
	case model.EventBadgeEarned:
		return "Badge earned"
	case model.EventLevelUp:
		return "Level up"
	case model.EventCircleJoined:
		return "Joined a clan"
	case model.EventStreakBonus:
		return "Streak bonus"
	default:
		return eventType
	}
}
