package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/audience-scope/internal/audience"
	"github.com/Veraticus/audience-scope/internal/cli"
)

// DefaultBarWidth is the width of distribution bars in characters.
const DefaultBarWidth = 20

// Styles contains all styling definitions for report formatting.
type Styles struct {
	// Base styles from CLI package
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Section  lipgloss.Style
	Label    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	// Report-specific styles
	Box      lipgloss.Style
	Score    lipgloss.Style
	BarFill  lipgloss.Style
	BarEmpty lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Section:  cli.SectionStyle,
		Label:    cli.LabelStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.Score = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.BarFill = lipgloss.NewStyle().
		Foreground(cli.PrimaryColor)

	s.BarEmpty = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#333333"))

	return s
}

// ForTier returns the style for a quality tier.
func (s *Styles) ForTier(tier audience.Tier) lipgloss.Style {
	switch tier {
	case audience.TierExcellent:
		return s.Success
	case audience.TierGood:
		return s.Info
	case audience.TierAverage:
		return s.Warning
	default:
		return s.Error
	}
}

// RenderBar renders percentage (0-100) as a bar of width cells.
func (s *Styles) RenderBar(percentage float64, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}

	filled := int(float64(width) * percentage / 100)
	filled = max(0, min(width, filled))

	return s.BarFill.Render(repeatChar("█", filled)) + s.BarEmpty.Render(repeatChar("░", width-filled))
}

// repeatChar repeats a character n times.
func repeatChar(char string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(char, n)
}
