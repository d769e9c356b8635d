package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lo := m.layout()

	// Header
	pal := paletteFor(m.view.Style())
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(" dmmap ─ DMM coordinate viewer "),
		" ",
		pal.badge.Render(m.view.Style().String()),
	)
	header = lipgloss.NewStyle().Width(lo.contentW).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lo.contentH-2)
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	// Map viewport
	var content string
	switch {
	case m.showTable:
		m.tbl.SetHeight(min(lo.mapH-4, 20))
		box := boxStyle.Render(m.tbl.View())
		content = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.form.active:
		box := boxStyle.Render(m.form.view())
		content = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(lo.mapW)
		m.ta.SetHeight(min(lo.mapH, 12))
		content = m.ta.View()
	default:
		content = m.renderMap(lo.mapW, lo.mapH)
	}
	mapView := lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).Render(content)

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	footer := lipgloss.JoinVertical(lipgloss.Left, m.renderStatus(lo.contentW), m.renderHelp())
	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(lo.contentW).Height(m.height).Render(ui)
}

// renderStatus shows the status message on the left and counts, tile
// source and hover coordinates on the right.
func (m Model) renderStatus(width int) string {
	st := dimStyle
	if isErrorStatus(m.status) {
		st = errStyle
	}
	left := st.Render(" " + m.status + " ")

	counts := fmt.Sprintf("%d/%d pts", len(m.vis.Visible()), len(m.view.Points()))
	if m.vis.Pending() {
		counts += " (staged)"
	}
	parts := []string{counts, m.view.TileURL()}
	if m.hoverHasGeo {
		parts = append(parts, fmt.Sprintf("lat=%.5f lng=%.5f", m.hoverLat, m.hoverLng))
	}
	right := dimStyle.Render("  " + strings.Join(parts, "  ") + " ")

	spacer := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return lipgloss.NewStyle().Width(width).MaxHeight(1).Render(left + strings.Repeat(" ", spacer) + right)
}

func isErrorStatus(s string) bool {
	return strings.Contains(s, "error:")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab files",
		"Enter open",
		"p paste",
		"a add",
		"t table",
		"m style",
		"l track",
		"n/N next",
		"Esc deselect",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
