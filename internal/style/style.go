// Package style holds the terminal colors and styles shared by the console
// views and the CLI commands.
package style

import "github.com/charmbracelet/lipgloss"

var (
	// Primary styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#04B575")).
		MarginBottom(1)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#10B981"))

	// Status styles
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575")).
		Bold(true)

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6"))

	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6b7280"))

	Bold = lipgloss.NewStyle().
		Bold(true)

	// Layout bar across the top of every protected view
	Bar = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1)

	// Session styles
	Active = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	Expired = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Strikethrough(true)

	Badge = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1)

	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6b7280")).
		MarginTop(1)

	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Info.Render("→")
)

// EmploymentBadge colors an employment label.
func EmploymentBadge(employment, label string) string {
	switch employment {
	case "working":
		return Badge.Background(lipgloss.Color("#10b981")).Render(label)
	case "student":
		return Badge.Background(lipgloss.Color("#3b82f6")).Render(label)
	case "unemployed":
		return Badge.Background(lipgloss.Color("#f59e0b")).Render(label)
	default:
		return Dim.Render(label)
	}
}
