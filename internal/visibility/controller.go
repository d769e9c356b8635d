// Package visibility stages how many markers are handed to the renderer at
// once. Lists above the threshold show their first Threshold points
// immediately and the rest after a one-shot deferred reveal.
package visibility

import "dmmap/internal/geom"

const DefaultThreshold = 500

// Reveal identifies the list generation a deferred full reveal belongs to.
type Reveal struct {
	Gen uint64
}

// Controller is owned by a single goroutine (the UI loop); it is not
// safe for concurrent use.
type Controller struct {
	threshold int
	gen       uint64
	full      []geom.Point
	visible   []geom.Point
	pending   bool
}

func New(threshold int) Controller {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Controller{threshold: threshold}
}

// Set replaces the full list. When it is longer than the threshold the
// visible set is its prefix and the returned Reveal must be handed back to
// Reveal once the caller is idle. Any earlier Reveal becomes stale.
func (c *Controller) Set(full []geom.Point) (visible []geom.Point, pending *Reveal) {
	if c.threshold <= 0 {
		c.threshold = DefaultThreshold
	}
	c.gen++
	c.full = full
	if len(full) <= c.threshold {
		c.visible = full
		c.pending = false
		return c.visible, nil
	}
	c.visible = full[:c.threshold:c.threshold]
	c.pending = true
	return c.visible, &Reveal{Gen: c.gen}
}

// Reveal shows the complete list if gen is still current. It reports
// whether the visible set changed.
func (c *Controller) Reveal(gen uint64) bool {
	if !c.pending || gen != c.gen {
		return false
	}
	c.visible = c.full
	c.pending = false
	return true
}

func (c *Controller) Visible() []geom.Point { return c.visible }
func (c *Controller) Full() []geom.Point    { return c.full }
func (c *Controller) Pending() bool         { return c.pending }
func (c *Controller) Threshold() int        { return c.threshold }

// Gen is the generation of the list installed by the latest Set.
func (c *Controller) Gen() uint64 { return c.gen }
