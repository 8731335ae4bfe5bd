// Package app is the root Bubble Tea model: section routing through
// the role guard, feed lifecycle, and frame layout.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/auth"
	"github.com/rejimde/terminal/internal/feed"
	"github.com/rejimde/terminal/internal/guard"
	"github.com/rejimde/terminal/internal/keys"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/session"
	"github.com/rejimde/terminal/internal/ui"
	activityview "github.com/rejimde/terminal/internal/ui/activity"
	badgesview "github.com/rejimde/terminal/internal/ui/badges"
	"github.com/rejimde/terminal/internal/ui/dashboard"
	loginview "github.com/rejimde/terminal/internal/ui/login"
	notificationsview "github.com/rejimde/terminal/internal/ui/notifications"
	"github.com/rejimde/terminal/internal/ui/prodash"
	tasksview "github.com/rejimde/terminal/internal/ui/tasks"
)

// Section is the active view of the app. It mirrors guard.Section for
// the guarded families and adds the leaf views inside the user area.
type Section int

const (
	SectionLogin Section = iota
	SectionDashboard
	SectionNotifications
	SectionTasks
	SectionBadges
	SectionActivity
	SectionProDashboard
)

// guardSection maps an app section onto its guard route family.
func guardSection(s Section) guard.Section {
	switch s {
	case SectionLogin:
		return guard.SectionLogin
	case SectionProDashboard:
		return guard.SectionPro
	default:
		return guard.SectionUser
	}
}

// sectionTitle returns the header title for a section.
func sectionTitle(s Section) string {
	switch s {
	case SectionLogin:
		return "Sign in"
	case SectionDashboard:
		return "Dashboard"
	case SectionNotifications:
		return "Notifications"
	case SectionTasks:
		return "Tasks"
	case SectionBadges:
		return "Badges"
	case SectionActivity:
		return "Activity"
	case SectionProDashboard:
		return "Pro Dashboard"
	default:
		return ""
	}
}

// reconcileMsg carries the async guard verdict for a section.
type reconcileMsg struct {
	section  Section
	decision guard.Decision
}

// sessionChangedMsg carries a session store change: login, logout, or
// a role corrected by reconciliation.
type sessionChangedMsg struct {
	snap session.Snapshot
}

// toastExpiredMsg clears the transient toast.
type toastExpiredMsg struct {
	id int
}

// Deps bundles the collaborators the root model needs.
type Deps struct {
	Config     *model.AppConfig
	Client     *api.Client
	Sessions   *session.Store
	Auth       *auth.Service
	Guard      *guard.Guard
	Cache      feed.Cache
	Logger     *zap.Logger
	Feed       *feed.NotificationFeed
	ExpertFeed *feed.NotificationFeed
}

// Model is the root application model.
type Model struct {
	deps      Deps
	keys      *keys.KeyMap
	layout    ui.Layout
	section   Section
	sessionCh <-chan session.Snapshot

	loginView    loginview.Model
	dashView     dashboard.Model
	notifView    notificationsview.Model
	tasksView    tasksview.Model
	badgesView   badgesview.Model
	activityView activityview.Model
	proView      prodash.Model

	unread  int
	toast   string
	toastID int
	ready   bool
}

// New creates the root model with all views wired.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()

	taskBoard := feed.NewTaskBoard(deps.Client, deps.Sessions, deps.Cache, deps.Logger)
	badgeBoard := feed.NewBadgeBoard(deps.Client, deps.Sessions, deps.Cache, deps.Logger)
	activityFeed := feed.NewActivityFeed(deps.Client, deps.Sessions, deps.Cache, deps.Config.Feed.ActivityPageSize, deps.Logger)

	m := Model{
		deps:         deps,
		keys:         k,
		sessionCh:    deps.Sessions.Subscribe(),
		layout:       ui.NewLayout(80, 24),
		loginView:    loginview.New(deps.Auth, 80, 24),
		dashView:     dashboard.New(deps.Client, k, nil, 80, 24),
		notifView:    notificationsview.New(deps.Feed, k, 80, 24),
		tasksView:    tasksview.New(taskBoard, k, 80, 24),
		badgesView:   badgesview.New(badgeBoard, k, 80, 24),
		activityView: activityview.New(activityFeed, k, 80, 24),
		proView:      prodash.New(deps.Client, deps.ExpertFeed, k, 80, 24),
	}

	if deps.Sessions.Current().LoggedIn() {
		m.section = homeSection(deps.Sessions.Current().Role)
	} else {
		m.section = SectionLogin
	}
	return m
}

// homeSection maps a role to its landing section.
func homeSection(role model.Role) Section {
	if guard.HomeSection(role) == guard.SectionPro {
		return SectionProDashboard
	}
	return SectionDashboard
}

// watchSession waits for the next session store change. Re-armed after
// every sessionChangedMsg, like the feed result subscriptions.
func (m Model) watchSession() tea.Cmd {
	return func() tea.Msg {
		return sessionChangedMsg{snap: <-m.sessionCh}
	}
}

// Init starts the feeds, the session watch, and the active section.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.watchSession()}

	if m.section == SectionLogin {
		cmds = append(cmds, m.loginView.Init())
	} else {
		cmds = append(cmds,
			m.deps.Feed.Start(),
			m.deps.ExpertFeed.Start(),
			m.enterSection(m.section),
		)
	}
	return tea.Batch(cmds...)
}

// enterSection returns the init command for a section plus its guard
// reconciliation. The section renders immediately from cached state;
// the reconcile verdict can redirect it afterwards.
func (m Model) enterSection(section Section) tea.Cmd {
	var initCmd tea.Cmd
	switch section {
	case SectionDashboard:
		initCmd = m.dashView.Init()
	case SectionTasks:
		initCmd = m.tasksView.Init()
	case SectionBadges:
		initCmd = m.badgesView.Init()
	case SectionActivity:
		initCmd = m.activityView.Init()
	case SectionProDashboard:
		initCmd = m.proView.Init()
	}

	reconcile := func() tea.Msg {
		decision := m.deps.Guard.Reconcile(context.Background(), guardSection(section))
		return reconcileMsg{section: section, decision: decision}
	}

	if initCmd == nil {
		return reconcile
	}
	return tea.Batch(initCmd, reconcile)
}

// navigate applies the guard's optimistic verdict and switches section.
func (m Model) navigate(target Section) (Model, tea.Cmd) {
	decision := m.deps.Guard.Decide(guardSection(target))
	if !decision.Allow {
		target = m.sectionFor(decision.RedirectTo)
	}

	if target == m.section {
		return m, nil
	}
	m.section = target

	if target == SectionLogin {
		return m, m.loginView.Init()
	}
	return m, m.enterSection(target)
}

// sectionFor maps a guard redirect target onto an app section.
func (m Model) sectionFor(target guard.Section) Section {
	switch target {
	case guard.SectionPro:
		return SectionProDashboard
	case guard.SectionUser:
		return SectionDashboard
	default:
		return SectionLogin
	}
}

// showToast sets a transient status message that clears after 3s. The
// id guards against an old timer clearing a newer toast.
func (m *Model) showToast(text string) tea.Cmd {
	m.toast = text
	m.toastID++
	id := m.toastID
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Update routes messages to the active view and handles app-level
// concerns: guard verdicts, feed snapshots, navigation, teardown.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		var cmds []tea.Cmd
		m.loginView, _ = m.loginView.Update(msg)
		m.dashView, _ = m.dashView.Update(msg)
		var cmd tea.Cmd
		m.notifView, cmd = m.notifView.Update(msg)
		cmds = append(cmds, cmd)
		m.tasksView, _ = m.tasksView.Update(msg)
		m.badgesView, _ = m.badgesView.Update(msg)
		m.activityView, _ = m.activityView.Update(msg)
		m.proView, _ = m.proView.Update(msg)
		return m, tea.Batch(cmds...)

	case loginview.LoggedInMsg:
		target := homeSection(msg.Snapshot.Role)
		m.section = target
		return m, tea.Batch(
			m.deps.Feed.Start(),
			m.deps.ExpertFeed.Start(),
			m.enterSection(target),
		)

	case sessionChangedMsg:
		cmds := []tea.Cmd{m.watchSession()}

		// A cleared token evicts the viewer no matter where they are.
		if !msg.snap.LoggedIn() {
			if m.section != SectionLogin {
				m.deps.Feed.Stop()
				m.deps.ExpertFeed.Stop()
				m.section = SectionLogin
				cmds = append(cmds, m.loginView.Init())
			}
			return m, tea.Batch(cmds...)
		}

		// A corrected role may invalidate the current section.
		if d := m.deps.Guard.Decide(guardSection(m.section)); !d.Allow {
			var cmd tea.Cmd
			m, cmd = m.navigate(m.sectionFor(d.RedirectTo))
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case reconcileMsg:
		// Ignore verdicts for sections we already left.
		if msg.section != m.section {
			return m, nil
		}
		if !msg.decision.Allow {
			return m.navigate(m.sectionFor(msg.decision.RedirectTo))
		}
		return m, nil

	case feed.NotificationsMsg:
		cmds := []tea.Cmd{}
		if msg.Expert {
			if msg.Err == nil {
				m.proView.SetPage(msg.Page)
			}
			cmds = append(cmds, m.deps.ExpertFeed.WaitForNext())
		} else {
			if msg.Err == nil {
				m.unread = msg.Page.CountUnread()
				cmds = append(cmds, m.notifView.SetPage(msg.Page, msg.Stale))
			}
			cmds = append(cmds, m.deps.Feed.WaitForNext())
		}
		return m, tea.Batch(cmds...)

	case feed.TasksMsg:
		m.tasksView.SetStale(msg.Stale)
		if msg.Err != nil {
			return m, m.showToast("Tasks unavailable")
		}
		return m, nil

	case feed.BadgesMsg:
		m.badgesView.SetStale(msg.Stale)
		if msg.Err != nil {
			return m, m.showToast("Badges unavailable")
		}
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.section != SectionLogin {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.deps.Feed.Stop()
				m.deps.ExpertFeed.Stop()
				return m, tea.Quit

			case key.Matches(msg, m.keys.Dashboard):
				return m.navigate(SectionDashboard)
			case key.Matches(msg, m.keys.Notifications):
				return m.navigate(SectionNotifications)
			case key.Matches(msg, m.keys.Tasks):
				return m.navigate(SectionTasks)
			case key.Matches(msg, m.keys.Badges):
				return m.navigate(SectionBadges)
			case key.Matches(msg, m.keys.Activity):
				return m.navigate(SectionActivity)
			case key.Matches(msg, m.keys.ProDashboard):
				return m.navigate(SectionProDashboard)
			}
		} else if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView forwards a message to the current section's model.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.section {
	case SectionLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case SectionDashboard:
		m.dashView, cmd = m.dashView.Update(msg)
	case SectionNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case SectionTasks:
		m.tasksView, cmd = m.tasksView.Update(msg)
	case SectionBadges:
		m.badgesView, cmd = m.badgesView.Update(msg)
	case SectionActivity:
		m.activityView, cmd = m.activityView.Update(msg)
	case SectionProDashboard:
		m.proView, cmd = m.proView.Update(msg)
	}
	return m, cmd
}

// View renders the current frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.section == SectionLogin {
		return m.loginView.View()
	}

	var content string
	switch m.section {
	case SectionDashboard:
		content = m.dashView.View()
	case SectionNotifications:
		content = m.notifView.View()
	case SectionTasks:
		content = m.tasksView.View()
	case SectionBadges:
		content = m.badgesView.View()
	case SectionActivity:
		content = m.activityView.View()
	case SectionProDashboard:
		content = m.proView.View()
	}

	header := m.layout.RenderHeader(
		sectionTitle(m.section),
		m.unread,
		m.deps.Sessions.Current().DisplayName,
	)
	statusBar := m.layout.RenderStatusBar(
		"d dash · n notifs · t tasks · b badges · a activity · r refresh · q quit",
		m.toast,
	)
	return m.layout.RenderWithFrame(header, content, statusBar)
}
