package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rejimde/terminal/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps a bordered content panel.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// UnreadStyle marks unread notifications.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// ToastStyle renders transient confirmation messages.
var ToastStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorGreen).
	Padding(0, 1)

// StaleStyle marks views rendered from a cached snapshot.
var StaleStyle = lipgloss.NewStyle().
	Foreground(ColorOrange).
	Italic(true)

// CategoryStyle returns a color-coded style for a notification category.
func CategoryStyle(category model.NotificationCategory) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch category {
	case model.CategorySocial:
		return base.Foreground(ColorMagenta)
	case model.CategoryLevel:
		return base.Foreground(ColorYellow)
	case model.CategoryCircle:
		return base.Foreground(ColorBlue)
	case model.CategoryPoints:
		return base.Foreground(ColorGreen)
	case model.CategoryExpert:
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorGray)
	}
}

// TierStyle returns a color-coded style for a badge tier.
func TierStyle(tier model.BadgeTier) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch tier {
	case model.TierBronze:
		return base.Foreground(ColorOrange)
	case model.TierSilver:
		return base.Foreground(ColorGray)
	case model.TierGold:
		return base.Foreground(ColorYellow)
	case model.TierPlatinum:
		return base.Foreground(ColorMagenta)
	default:
		return base.Foreground(ColorGray)
	}
}

// StatusStyle returns a color-coded style for a task status.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.TaskStatusInProgress:
		return base.Foreground(ColorYellow)
	case model.TaskStatusCompleted:
		return base.Foreground(ColorGreen)
	case model.TaskStatusExpired:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// ProgressBar renders a fixed-width bar for a clamped percentage.
func ProgressBar(percent float64, width int) string {
	if width < 2 {
		width = 2
	}
	pct := model.ClampPercent(percent)
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if pct >= 100 {
		return lipgloss.NewStyle().Foreground(ColorGreen).Render(bar)
	}
	return lipgloss.NewStyle().Foreground(ColorBlue).Render(bar)
}
