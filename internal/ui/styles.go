package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/i474232898/termweather/internal/present"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	focusedRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

var tierStyles = map[present.TempTier]lipgloss.Style{
	present.TierCold: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	present.TierMild: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	present.TierHot:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

// Radar cells: glyph plus color per intensity bucket.
var radarCells = map[present.RadarBucket]string{
	present.RadarNone:      mutedStyle.Render("·"),
	present.RadarVeryLight: lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Render("░"),
	present.RadarLight:     lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Render("▒"),
	present.RadarModerate:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render("▓"),
	present.RadarHeavy:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("█"),
	present.RadarExtreme:   lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Render("█"),
}

func tierStyle(t present.TempTier) lipgloss.Style {
	if s, ok := tierStyles[t]; ok {
		return s
	}
	return tierStyles[present.TierMild]
}
