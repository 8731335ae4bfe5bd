package tasks

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rejimde/terminal/internal/feed"
	"github.com/rejimde/terminal/internal/keys"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/theme"
)

// sections are the board tabs cycled by Tab.
var sections = []model.TaskType{
	model.TaskTypeDaily,
	model.TaskTypeWeekly,
	model.TaskTypeMonthly,
	model.TaskTypeCircle,
}

// Model is the task board view.
type Model struct {
	board        *feed.TaskBoard
	keys         *keys.KeyMap
	sectionIndex int
	stale        bool
	width        int
	height       int
}

// New creates the task board view.
func New(board *feed.TaskBoard, k *keys.KeyMap, width, height int) Model {
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

// Update handles messages for the task board.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.CycleSection):
			m.sectionIndex = (m.sectionIndex + 1) % len(sections)
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			return m, m.board.Load()
		}
	}

	return m, nil
}

// View renders the active section of the board.
func (m Model) View() string {
	var b strings.Builder

	var tabs []string
	for i, section := range sections {
		label := string(section)
		if i == m.sectionIndex {
			tabs = append(tabs, theme.SelectedItemStyle.Render(label))
		} else {
			tabs = append(tabs, theme.ListItemStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if m.stale {
		b.WriteString(theme.StaleStyle.Render("showing cached data — backend unreachable"))
		b.WriteString("\n\n")
	}

	switch sections[m.sectionIndex] {
	case model.TaskTypeCircle:
		m.renderCircle(&b)
	default:
		m.renderTasks(&b, m.currentTasks())
	}

	return theme.PanelStyle.Width(m.width - 4).Render(b.String())
}

func (m Model) currentTasks() []model.Task {
	switch sections[m.sectionIndex] {
	case model.TaskTypeDaily:
		return m.board.Daily()
	case model.TaskTypeWeekly:
		return m.board.Weekly()
	case model.TaskTypeMonthly:
		return m.board.Monthly()
	default:
		return nil
	}
}

func (m Model) renderTasks(b *strings.Builder, tasks []model.Task) {
	if len(tasks) == 0 {
		b.WriteString(theme.HelpStyle.Render("No tasks here yet."))
		return
	}

	for _, task := range tasks {
		pct := task.Completion()
		fmt.Fprintf(b, "%s %s\n",
			theme.StatusStyle(task.Status).Render(task.Status),
			task.Title,
		)
		fmt.Fprintf(b, "  %s %3.0f%%  +%d pts\n\n",
			theme.ProgressBar(pct, 24),
			pct,
			task.RewardScore,
		)
	}
}

func (m Model) renderCircle(b *strings.Builder) {
	circle := m.board.Circle()
	if len(circle) == 0 {
		b.WriteString(theme.HelpStyle.Render("Your clan has no active tasks."))
		return
	}

	for _, task := range circle {
		pct := task.Completion()
		fmt.Fprintf(b, "%s %s\n",
			theme.StatusStyle(task.Status).Render(task.Status),
			task.Title,
		)
		fmt.Fprintf(b, "  clan %s %3.0f%%  %d contributing\n",
			theme.ProgressBar(pct, 24),
			pct,
			task.MembersContributing,
		)
		fmt.Fprintf(b, "  you  %s %3.0f%%\n\n",
			theme.ProgressBar(model.ClampPercent(task.MyContributionPercent), 24),
			model.ClampPercent(task.MyContributionPercent),
		)
	}
}
