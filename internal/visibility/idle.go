package visibility

import "time"

// IdleGate decides whether deferred work may run: the loop counts as idle
// once no input has been seen for Window.
type IdleGate struct {
	Window    time.Duration
	lastInput time.Time
}

func (g *IdleGate) Touch(now time.Time) { g.lastInput = now }

func (g *IdleGate) Idle(now time.Time) bool {
	return g.lastInput.IsZero() || now.Sub(g.lastInput) >= g.Window
}
