// Package tui is the terminal dashboard: a bubbletea program rendering the
// dashboard controller's view with lipgloss styles.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/notify"
)

// Palette.
var (
	Primary     = lipgloss.Color("#4F46E5") // Indigo
	Foreground  = lipgloss.Color("#1F2937")
	Muted       = lipgloss.Color("#6B7280")
	Border      = lipgloss.Color("#D1D5DB")
	Destructive = lipgloss.Color("#DC2626")
	Success     = lipgloss.Color("#16A34A")

	BadgeToRead     = lipgloss.Color("#2563EB") // Blue
	BadgeInProgress = lipgloss.Color("#CA8A04") // Yellow
	BadgeRead       = lipgloss.Color("#16A34A") // Green
)

// Styles holds the styled components of the dashboard.
type Styles struct {
	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Label    lipgloss.Style

	// Status
	Error   lipgloss.Style
	Success lipgloss.Style

	// Components
	Card      lipgloss.Style
	CardValue lipgloss.Style
	Spinner   lipgloss.Style
	Badge     lipgloss.Style
	Toast     lipgloss.Style
	Panel     lipgloss.Style
	Focused   lipgloss.Style
	Button    lipgloss.Style
	Disabled  lipgloss.Style
}

// NewStyles builds the dashboard styles.
func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(Muted),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(Muted).
			Width(18),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2).
			MarginRight(1),

		CardValue: lipgloss.NewStyle().
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(Primary),

		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),

		Toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2),

		Focused: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),

		Button: lipgloss.NewStyle().
			Background(Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2),

		Disabled: lipgloss.NewStyle().
			Background(Border).
			Foreground(Muted).
			Padding(0, 2),
	}
}

// StatusColor returns the badge color for a reading status.
func StatusColor(s domain.Status) lipgloss.Color {
	switch s {
	case domain.StatusToRead:
		return BadgeToRead
	case domain.StatusInProgress:
		return BadgeInProgress
	case domain.StatusRead:
		return BadgeRead
	default:
		return Muted
	}
}

// StatusBadge renders the status label on its color.
func (s Styles) StatusBadge(status domain.Status) string {
	return s.Badge.Background(StatusColor(status)).Render(status.Label())
}

// ToastStyle picks the border color for a toast kind.
func (s Styles) ToastStyle(kind notify.Kind) lipgloss.Style {
	switch kind {
	case notify.KindSuccess:
		return s.Toast.BorderForeground(Success)
	case notify.KindError:
		return s.Toast.BorderForeground(Destructive)
	default:
		return s.Toast.BorderForeground(Border)
	}
}

