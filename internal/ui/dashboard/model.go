package dashboard

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/keys"
	"github.com/rejimde/terminal/internal/mascot"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/theme"
)

// ProfileMsg carries the dashboard's profile data.
type ProfileMsg struct {
	Profile *model.Profile
	Err     error
}

// StandingsMsg carries the weekly league table.
type StandingsMsg struct {
	Standings []model.LeagueStanding
}

// ClansMsg carries the clan directory.
type ClansMsg struct {
	Clans []model.ClanSummary
}

// MascotConfigMsg carries the resolved mascot config, delivered once
// after the remote overlay attempt completes.
type MascotConfigMsg struct {
	Config mascot.Config
}

// Model is the user dashboard view: points, league, streak, and the
// mascot pane.
type Model struct {
	client    *api.Client
	keys      *keys.KeyMap
	profile   *model.Profile
	standings []model.LeagueStanding
	clans     []model.ClanSummary
	mascotCfg mascot.Config
	selection mascot.Selection
	rng       *rand.Rand
	width     int
	height    int
}

// New creates the dashboard view. rng drives mascot selection and is
// injected so tests can pin it.
func New(client *api.Client, k *keys.KeyMap, rng *rand.Rand, width, height int) Model {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := Model{
		client:    client,
		keys:      k,
		mascotCfg: mascot.DefaultConfig(),
		rng:       rng,
		width:     width,
		height:    height,
	}
	// Initial render uses the compiled-in defaults; the remote overlay
	// re-rolls when it lands.
	m.selection, _ = mascot.Select(mascot.StateIdle, m.mascotCfg, rng)
	return m
}

// Init kicks off the profile, standings, clan, and mascot config fetches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadProfile(), m.loadStandings(), m.loadClans(), m.loadMascotConfig())
}

func (m Model) loadProfile() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		profile, err := m.client.Me(ctx)
		return ProfileMsg{Profile: profile, Err: err}
	}
}

func (m Model) loadStandings() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		standings, err := m.client.LeagueStandings(ctx)
		if err != nil {
			// Degraded league table renders as an empty section.
			return StandingsMsg{}
		}
		return StandingsMsg{Standings: standings}
	}
}

func (m Model) loadClans() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		clans, err := m.client.Clans(ctx)
		if err != nil {
			return ClansMsg{}
		}
		return ClansMsg{Clans: clans}
	}
}

func (m Model) loadMascotConfig() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return MascotConfigMsg{Config: mascot.Resolve(ctx, m.client)}
	}
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProfileMsg:
		if msg.Err == nil {
			m.profile = msg.Profile
			m.selection, _ = mascot.Select(m.mascotState(), m.mascotCfg, m.rng)
		}
		return m, nil

	case StandingsMsg:
		m.standings = msg.Standings
		return m, nil

	case ClansMsg:
		m.clans = msg.Clans
		return m, nil

	case MascotConfigMsg:
		m.mascotCfg = msg.Config
		m.selection, _ = mascot.Select(m.mascotState(), m.mascotCfg, m.rng)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			return m, tea.Batch(m.loadProfile(), m.loadStandings(), m.loadClans())
		}
	}

	return m, nil
}

// mascotState picks the mascot mood from the profile.
func (m Model) mascotState() mascot.State {
	if m.profile == nil {
		return mascot.StateIdle
	}
	switch {
	case m.profile.Streak >= 7:
		return mascot.StateCheering
	case m.profile.Streak > 0:
		return mascot.StateHappy
	case m.profile.StreakGrace == 0:
		return mascot.StateSad
	default:
		return mascot.StateIdle
	}
}

// View renders the dashboard.
func (m Model) View() string {
	var left strings.Builder

	if m.profile == nil {
		left.WriteString(theme.HelpStyle.Render("Loading profile..."))
	} else {
		fmt.Fprintf(&left, "%s\n\n", theme.HeaderStyle.Render(m.profile.DisplayName))
		fmt.Fprintf(&left, "Level %d — %s league\n", m.profile.Level, m.profile.League)
		fmt.Fprintf(&left, "%d points\n", m.profile.Points)
		fmt.Fprintf(&left, "🔥 %d day streak (%d grace left)\n", m.profile.Streak, m.profile.StreakGrace)
	}

	if len(m.standings) > 0 {
		left.WriteString("\n")
		left.WriteString(theme.HeaderStyle.Render("This week's league"))
		left.WriteString("\n")
		for _, row := range m.standings {
			line := fmt.Sprintf("%2d. %s — %d pts", row.Rank, row.DisplayName, row.Points)
			if row.IsViewer {
				line = theme.SelectedItemStyle.Render(line)
			}
			left.WriteString(line + "\n")
		}
	}

	if len(m.clans) > 0 {
		left.WriteString("\n")
		left.WriteString(theme.HeaderStyle.Render("Top clans"))
		left.WriteString("\n")
		limit := len(m.clans)
		if limit > 5 {
			limit = 5
		}
		for _, clan := range m.clans[:limit] {
			fmt.Fprintf(&left, "%2d. %s  %d members, %d pts\n",
				clan.Rank, clan.Name, clan.MemberCount, clan.TotalPoints)
		}
	}

	mascotPane := theme.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			m.selection.Asset,
			"",
			theme.HelpStyle.Render(m.selection.Text),
		),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.PanelStyle.Width(m.width*2/3-2).Render(left.String()),
		mascotPane,
	)
}
