package mapview

import "dmmap/internal/geom"

const DefaultPanFrames = 8

// Pan animates the view center towards the focus. A new animation starts
// only when the requested focus coordinate changes.
type Pan struct {
	frames int

	from, to, cur geom.LatLng
	focus         geom.LatLng
	frame         int
	active        bool
	started       bool
}

func NewPan(frames int) Pan {
	if frames <= 0 {
		frames = DefaultPanFrames
	}
	return Pan{frames: frames}
}

func (p *Pan) Current() geom.LatLng { return p.cur }
func (p *Pan) Active() bool         { return p.active }

// PanTo requests focus as the new target and reports whether an animation
// was started. The very first request positions the view without animating.
func (p *Pan) PanTo(focus geom.LatLng) bool {
	if p.frames <= 0 {
		p.frames = DefaultPanFrames
	}
	if !p.started {
		p.started = true
		p.focus, p.to, p.cur = focus, focus, focus
		return false
	}
	if focus == p.focus {
		return false
	}
	p.focus = focus
	p.from, p.to = p.cur, focus
	p.frame = 0
	p.active = true
	return true
}

// Step advances one frame and reports whether more frames remain.
func (p *Pan) Step() bool {
	if !p.active {
		return false
	}
	p.frame++
	if p.frame >= p.frames {
		p.cur = p.to
		p.active = false
		return false
	}
	t := easeInOut(float64(p.frame) / float64(p.frames))
	p.cur = geom.LatLng{
		Lat: p.from.Lat + (p.to.Lat-p.from.Lat)*t,
		Lng: p.from.Lng + (p.to.Lng-p.from.Lng)*t,
	}
	return true
}

// Jump moves the view without touching the requested focus, e.g. for
// manual panning. Any running animation stops.
func (p *Pan) Jump(c geom.LatLng) {
	p.cur, p.to = c, c
	p.active = false
	p.started = true
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - 2*(1-t)*(1-t)
}
