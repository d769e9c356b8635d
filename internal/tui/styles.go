package tui

import (
	"github.com/charmbracelet/lipgloss"

	"dmmap/internal/mapview"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	errorFg   = lipgloss.Color("#F87171")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errStyle   = lipgloss.NewStyle().Foreground(errorFg)
)

// palette colours the map for one tile style.
type palette struct {
	marker   lipgloss.Style
	selected lipgloss.Style
	badge    lipgloss.Style
}

func newPalette(marker, badgeBg lipgloss.Color) palette {
	return palette{
		marker:   lipgloss.NewStyle().Foreground(marker),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true),
		badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0B0F14")).Background(badgeBg).Padding(0, 1),
	}
}

var palettes = map[mapview.Style]palette{
	mapview.Roadmap:   newPalette("#60A5FA", "#60A5FA"),
	mapview.Satellite: newPalette("#FBBF24", "#A3A3A3"),
	mapview.Hybrid:    newPalette("#F472B6", "#F472B6"),
	mapview.Terrain:   newPalette("#34D399", "#34D399"),
}

func paletteFor(s mapview.Style) palette {
	if p, ok := palettes[s]; ok {
		return p
	}
	return palettes[mapview.Roadmap]
}
