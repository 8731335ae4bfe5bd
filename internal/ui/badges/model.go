package badges

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rejimde/terminal/internal/feed"
	"github.com/rejimde/terminal/internal/keys"
	"github.com/rejimde/terminal/internal/theme"
)

// Model is the badge board view.
type Model struct {
	board  *feed.BadgeBoard
	keys   *keys.KeyMap
	stale  bool
	width  int
	height int
}

// New creates the badge board view.
func New(board *feed.BadgeBoard, k *keys.KeyMap, width, height int) Model {
	return Model{
		board:  board,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init loads the board.
func (m Model) Init() tea.Cmd {
	return m.board.Load()
}

// SetStale marks the view as rendered from cached data.
func (m *Model) SetStale(stale bool) {
	m.stale = stale
}

// Update handles messages for the badge board.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.board.Load()
		}
	}

	return m, nil
}

// View renders the badge collection grouped by category.
func (m Model) View() string {
	var b strings.Builder

	stats := m.board.Stats()
	fmt.Fprintf(&b, "Earned %d of %d badges  %s %3.0f%%\n\n",
		stats.Earned, stats.Total,
		theme.ProgressBar(stats.Percent, 24), stats.Percent,
	)

	if m.stale {
		b.WriteString(theme.StaleStyle.Render("showing cached data — backend unreachable"))
		b.WriteString("\n\n")
	}

	recent := m.board.RecentlyEarned()
	if len(recent) > 0 {
		b.WriteString(theme.HeaderStyle.Render("Recently earned"))
		b.WriteString("\n")
		for _, badge := range recent {
			fmt.Fprintf(&b, "  %s %s\n",
				theme.TierStyle(badge.Tier).Render(string(badge.Tier)),
				badge.Title,
			)
		}
		b.WriteString("\n")
	}

	for category, badges := range m.board.ByCategory() {
		if category == "" {
			category = "other"
		}
		b.WriteString(theme.HeaderStyle.Render(category))
		b.WriteString("\n")
		for _, badge := range badges {
			pct := badge.Completion()
			marker := " "
			if badge.Earned {
				marker = "✓"
			}
			fmt.Fprintf(&b, "  %s %s %s %s %3.0f%%\n",
				marker,
				theme.TierStyle(badge.Tier).Render(string(badge.Tier)),
				badge.Title,
				theme.ProgressBar(pct, 16),
				pct,
			)
		}
		b.WriteString("\n")
	}

	return theme.PanelStyle.Width(m.width - 4).Render(b.String())
}
