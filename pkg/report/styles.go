package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ruleweave/ruleweave/pkg/strategies"
)

// Adaptive semantic styles shared by all text output. Colors adjust to
// light and dark terminal themes.
var (
	stylePath = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "39"})
	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "196"})
	styleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})
	styleInfo = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "24", Dark: "45"})
	styleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"})
	styleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "243", Dark: "245"})
)

// severityStyle returns the style for an issue severity
func severityStyle(sev strategies.Severity) lipgloss.Style {
	switch sev {
	case strategies.SeverityError:
		return styleError
	case strategies.SeverityInfo:
		return styleInfo
	default:
		return styleWarning
	}
}
