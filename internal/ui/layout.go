package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rejimde/terminal/internal/theme"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top bar: section title on the left, the
// unread bell and viewer name on the right.
func (l Layout) RenderHeader(title string, unread int, viewer string) string {
	titleRendered := theme.HeaderStyle.Render("Rejimde — " + title)

	right := viewer
	if unread > 0 {
		right = fmt.Sprintf("🔔 %d  %s", unread, viewer)
	}
	rightRendered := theme.HeaderStyle.Align(lipgloss.Right).Render(right)

	gap := l.Width - lipgloss.Width(titleRendered) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, titleRendered, filler, rightRendered)
}

// RenderStatusBar renders the bottom status bar with keyboard hints and
// an optional transient toast on the right.
func (l Layout) RenderStatusBar(hints string, toast string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	var toastRendered string
	if toast != "" {
		toastRendered = theme.ToastStyle.Render(toast)
	}

	gap := l.Width - lipgloss.Width(rendered) - lipgloss.Width(toastRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler, toastRendered)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
