package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

func newPointsTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 7},
			{Title: "lat", Width: 14},
			{Title: "lng", Width: 14},
		}),
		table.WithFocused(true),
	)
	t.SetHeight(12)
	return t
}

// refreshTable lists the points currently handed to the map, so a
// staged list shows only its visible prefix until the reveal.
func (m *Model) refreshTable() {
	pts := m.vis.Visible()
	rows := make([]table.Row, 0, len(pts))
	for _, p := range pts {
		rows = append(rows, table.Row{
			p.ID,
			strconv.FormatFloat(p.Lat, 'f', 8, 64),
			strconv.FormatFloat(p.Lng, 'f', 8, 64),
		})
	}
	m.tbl.SetRows(rows)
	if cur := m.tbl.Cursor(); cur >= len(rows) {
		m.tbl.SetCursor(max(0, len(rows)-1))
	}
	if id, ok := m.view.Selected(); ok {
		for i, r := range rows {
			if r[0] == id {
				m.tbl.SetCursor(i)
				break
			}
		}
	}
}

// selectedRowID returns the point id under the table cursor.
func (m Model) selectedRowID() (string, bool) {
	row := m.tbl.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return row[0], true
}

// stepSelection moves the selection by delta through the visible points,
// wrapping at both ends. With nothing selected it starts at the first or
// last point.
func (m *Model) stepSelection(delta int) bool {
	pts := m.vis.Visible()
	if len(pts) == 0 {
		return false
	}
	idx := -1
	if id, ok := m.view.Selected(); ok {
		for i, p := range pts {
			if p.ID == id {
				idx = i
				break
			}
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(pts) - 1
	default:
		idx = ((idx+delta)%len(pts) + len(pts)) % len(pts)
	}
	m.view.Select(pts[idx].ID)
	return true
}
