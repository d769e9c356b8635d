package tui

import (
	"strings"

	"dmmap/internal/geom"
)

const (
	sidebarWidth = 28
	// click tolerance around a marker, in cells
	clickRadius = 1

	// degrees shown when there is nothing to fit
	emptySpan = 0.5
	minSpan   = 0.01
)

type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

// layout mirrors how View stacks header, sidebar, map and footer.
func (m Model) layout() layout {
	headerHeight := 1
	footerHeight := 2
	contentH := max(4, m.height-headerHeight-footerHeight)
	contentW := max(10, m.width)
	sw, mapX := 0, 0
	if m.showSidebar {
		sw, mapX = sidebarWidth, sidebarWidth+1
	}
	return layout{
		contentW: contentW,
		contentH: contentH,
		mapX:     mapX,
		mapY:     headerHeight,
		mapW:     max(10, contentW-sw-1),
		mapH:     contentH,
	}
}

// viewport projects lat/lng onto the braille micro-pixel grid of the map.
// Micro-pixels are close to square, so one scale serves both axes.
type viewport struct {
	center geom.LatLng
	scale  float64 // degrees per micro-pixel
	w, h   int     // in micro-pixels
}

// viewport centres on the animated pan position and sizes the scale so the
// whole dataset stays reachable from any point of it at zoom 1.
func (m Model) viewport(cellsW, cellsH int) viewport {
	wMic, hMic := max(2, cellsW*2), max(4, cellsH*4)
	spanX, spanY := emptySpan, emptySpan
	if m.hasBBox {
		spanX = max(m.bbox.Width(), minSpan) * 2.2
		spanY = max(m.bbox.Height(), minSpan) * 2.2
	}
	zoom := m.zoom
	if zoom <= 0 {
		zoom = 1
	}
	scale := max(spanX/float64(wMic), spanY/float64(hMic)) / zoom
	return viewport{center: m.pan.Current(), scale: scale, w: wMic, h: hMic}
}

// position is the unclipped micro-pixel position of ll.
func (v viewport) position(ll geom.LatLng) (fx, fy float64) {
	fx = float64(v.w)/2 + (ll.Lng-v.center.Lng)/v.scale
	fy = float64(v.h)/2 - (ll.Lat-v.center.Lat)/v.scale
	return fx, fy
}

func (v viewport) project(ll geom.LatLng) (mx, my int, ok bool) {
	if v.scale <= 0 {
		return 0, 0, false
	}
	fx, fy := v.position(ll)
	if fx < 0 || fy < 0 || fx >= float64(v.w) || fy >= float64(v.h) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

func (v viewport) unproject(mx, my int) geom.LatLng {
	return geom.LatLng{
		Lat: v.center.Lat - (float64(my)-float64(v.h)/2)*v.scale,
		Lng: v.center.Lng + (float64(mx)-float64(v.w)/2)*v.scale,
	}
}

// nearest returns the on-screen point closest to cell (cx, cy) within
// radius cells.
func (v viewport) nearest(pts []geom.Point, cx, cy, radius int) (geom.Point, bool) {
	best, bestD := -1, 0
	for i, p := range pts {
		mx, my, ok := v.project(p.LatLng())
		if !ok {
			continue
		}
		dx, dy := mx/2-cx, my/4-cy
		if abs(dx) > radius || abs(dy) > radius {
			continue
		}
		if d := dx*dx + dy*dy; best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return geom.Point{}, false
	}
	return pts[best], true
}

// clip cuts the segment to the micro-pixel area using Liang-Barsky.
func (v viewport) clip(x0, y0, x1, y1 float64) (ax, ay, bx, by float64, ok bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0},
		{dx, float64(v.w) - 1 - x0},
		{-dy, y0},
		{dy, float64(v.h) - 1 - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// drawTrack joins consecutive points in list order.
func (v viewport) drawTrack(br *brailleBuf, pts []geom.Point) {
	if v.scale <= 0 {
		return
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := v.position(pts[i-1].LatLng())
		x1, y1 := v.position(pts[i].LatLng())
		ax, ay, bx, by, ok := v.clip(x0, y0, x1, y1)
		if !ok {
			continue
		}
		br.drawLineMicro(int(ax), int(ay), int(bx), int(by))
	}
}

func (m Model) renderMap(w, h int) string {
	vp := m.viewport(w, h)
	pal := paletteFor(m.view.Style())

	br := newBrailleBuf(w, h)
	props := m.view.Props(m.vis.Visible())
	if props.Track {
		vp.drawTrack(br, props.Locations)
	}
	for _, p := range props.Locations {
		if mx, my, ok := vp.project(p.LatLng()); ok {
			br.setPixel(mx, my)
		}
	}
	selX, selY := -1, -1
	if p, ok := m.view.SelectedPoint(); ok {
		if mx, my, ok := vp.project(p.LatLng()); ok {
			selX, selY = mx/2, my/4
		}
	}

	lines := make([]string, h)
	var seg []rune
	for y := 0; y < h; y++ {
		var sb strings.Builder
		lit := false
		flush := func() {
			if len(seg) == 0 {
				return
			}
			if lit {
				sb.WriteString(pal.marker.Render(string(seg)))
			} else {
				sb.WriteString(string(seg))
			}
			seg = seg[:0]
		}
		for x := 0; x < w; x++ {
			if x == selX && y == selY {
				flush()
				sb.WriteString(pal.selected.Render("◉"))
				continue
			}
			r := br.cell(x, y)
			if isLit := r != ' '; isLit != lit {
				flush()
				lit = isLit
			}
			seg = append(seg, r)
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
