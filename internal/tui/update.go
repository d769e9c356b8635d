package tui

import (
	"fmt"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"dmmap/internal/geom"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			lo := m.layout()
			m.l.SetSize(sidebarWidth-2, lo.contentH-2)
		}
		return m, nil
	case ingestProgressMsg:
		return m.handleProgress(msg)
	case ingestDoneMsg:
		return m.handleIngestDone(msg)
	case storeErrMsg:
		m.status = "store error: " + msg.err.Error()
		return m, nil
	case revealMsg:
		return m.handleReveal(msg, time.Now())
	case panFrameMsg:
		return m.handlePanFrame()
	case tea.KeyMsg:
		m.idle.Touch(time.Now())
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionMotion {
			m.idle.Touch(time.Now())
		}
		return m.handleMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.pasteMode {
		return m.handlePasteKey(msg)
	}
	if m.form.active {
		return m.handleFormKey(msg)
	}
	if m.showTable {
		return m.handleTableKey(msg)
	}
	if m.showSidebar {
		switch msg.String() {
		case "up", "down", "k", "j", "pgup", "pgdown", "/":
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
	}
	switch msg.String() {
	case "ctrl+c", "q":
		if m.run != nil {
			m.run.cancel()
		}
		return m, tea.Quit
	case "+", "=":
		if m.zoom < 4096 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			lo := m.layout()
			m.l.SetSize(sidebarWidth-2, lo.contentH-2)
		}
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		cmd := m.ta.Focus()
		return m, cmd
	case "a":
		m.status = "add point"
		cmd := m.form.open()
		return m, cmd
	case "t":
		m.showTable = true
		m.refreshTable()
		m.status = fmt.Sprintf("points table: %d rows", len(m.tbl.Rows()))
	case "m":
		m.view.SetStyle(m.view.Style().Next())
		m.status = "style: " + m.view.Style().String()
	case "l":
		if m.view.ToggleTrack() {
			m.status = "track: on"
		} else {
			m.status = "track: off"
		}
	case "n", "N":
		delta := 1
		if msg.String() == "N" {
			delta = -1
		}
		if m.stepSelection(delta) {
			m.status = m.selectionStatus()
			cmd := m.syncFocus()
			return m, cmd
		}
		m.status = "no points"
	case "esc":
		if _, ok := m.view.Selected(); ok {
			m.view.ClearSelection()
			m.status = "selection cleared"
			cmd := m.syncFocus()
			return m, cmd
		}
	case "h":
		m.helpVisible = !m.helpVisible
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				cmd := m.loadPath(it.path)
				return m, cmd
			}
		}
	case "up":
		m.nudge(0, 1)
	case "down":
		m.nudge(0, -1)
	case "left":
		m.nudge(-1, 0)
	case "right":
		m.nudge(1, 0)
	}
	return m, nil
}

func (m Model) handlePasteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		text := m.ta.Value()
		if strings.TrimSpace(text) == "" {
			m.status = "paste: empty"
			return m, nil
		}
		m.pasteMode = false
		m.ta.Blur()
		cmd := m.loadText(text)
		return m, cmd
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form.close()
		m.status = "view mode"
		return m, nil
	case "tab", "shift+tab", "up", "down":
		cmd := m.form.toggleFocus()
		return m, cmd
	case "enter":
		lat, lng := m.form.values()
		p, err := m.view.AddPoint(lat, lng)
		if err != nil {
			// form stays open so the entry can be corrected
			m.status = "add point error: " + err.Error()
			return m, nil
		}
		m.form.close()
		if len(m.view.Points()) == 1 {
			m.view.SetCenter(p.LatLng())
		}
		m.bbox, m.hasBBox = geom.Bounds(m.view.Points())
		cmd := m.restage()
		pan := m.syncFocus()
		m.status = fmt.Sprintf("added point %s  lat=%.6f lng=%.6f", p.ID, p.Lat, p.Lng)
		return m, tea.Batch(cmd, pan)
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "t", "q":
		m.showTable = false
		m.status = "view mode"
		return m, nil
	case "enter":
		id, ok := m.selectedRowID()
		if !ok {
			return m, nil
		}
		m.view.Select(id)
		m.showTable = false
		m.status = m.selectionStatus()
		cmd := m.syncFocus()
		return m, cmd
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	lo := m.layout()
	cx, cy := msg.X-lo.mapX, msg.Y-lo.mapY
	inMap := cx >= 0 && cx < lo.mapW && cy >= 0 && cy < lo.mapH
	if !inMap || m.pasteMode || m.showTable || m.form.active {
		m.hoverHasGeo = false
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	vp := m.viewport(lo.mapW, lo.mapH)
	ll := vp.unproject(cx*2+1, cy*4+2)
	m.hoverHasGeo, m.hoverLat, m.hoverLng = true, ll.Lat, ll.Lng

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if m.zoom < 4096 {
			m.zoom *= 1.2
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if m.zoom > 0.05 {
			m.zoom /= 1.2
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if p, ok := vp.nearest(m.vis.Visible(), cx, cy, clickRadius); ok {
			m.view.Select(p.ID)
			m.status = m.selectionStatus()
			cmd := m.syncFocus()
			return m, cmd
		}
	}
	return m, nil
}

// nudge pans the view by a quarter of the map without changing the focus.
func (m *Model) nudge(dx, dy int) {
	lo := m.layout()
	vp := m.viewport(lo.mapW, lo.mapH)
	c := m.pan.Current()
	c.Lng += float64(dx) * vp.scale * float64(lo.mapW*2) / 4
	c.Lat += float64(dy) * vp.scale * float64(lo.mapH*4) / 4
	m.pan.Jump(c)
}

func (m Model) selectionStatus() string {
	p, ok := m.view.SelectedPoint()
	if !ok {
		return "no selection"
	}
	return fmt.Sprintf("selected %s  lat=%.8f lng=%.8f", p.ID, p.Lat, p.Lng)
}
