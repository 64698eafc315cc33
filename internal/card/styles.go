package card

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/johnwards/niyog/pkg/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1e293b")).
			Bold(true)

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a4b8c")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280"))

	progressFilled = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2ec4b6"))

	progressEmpty = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e5e7eb"))

	stageDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2ec4b6"))

	stageCurrent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b35")).
			Bold(true)

	stageUpcoming = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#dc2626"))

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#d1d5db")).
			Padding(1, 2)
)

var badgeColors = map[pipeline.Badge]string{
	pipeline.BadgeRejected:  "#dc2626",
	pipeline.BadgeStalled:   "#dc2626",
	pipeline.BadgeViewed:    "#d97706",
	pipeline.BadgeActive:    "#16a34a",
	pipeline.BadgeInterview: "#9333ea",
}

func renderBadge(b pipeline.Badge) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(badgeColors[b])).
		Bold(true).
		Render("● " + string(b))
}

// renderStages draws the stage track, for example "✓ applied ─ ◉ viewed ─ ○ shortlisted".
func renderStages(views []pipeline.StageView) string {
	parts := make([]string, len(views))
	for i, v := range views {
		switch v.Display {
		case pipeline.DisplayCompleted:
			parts[i] = stageDone.Render("✓ " + string(v.Stage))
		case pipeline.DisplayCurrent:
			parts[i] = stageCurrent.Render("◉ " + string(v.Stage))
		default:
			parts[i] = stageUpcoming.Render("○ " + string(v.Stage))
		}
	}
	return strings.Join(parts, dimStyle.Render(" ─ "))
}

func renderProgress(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return progressFilled.Render(strings.Repeat("█", filled)) +
		progressEmpty.Render(strings.Repeat("░", width-filled))
}
