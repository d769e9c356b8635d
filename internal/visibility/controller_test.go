package visibility

import (
	"strconv"
	"testing"
	"time"

	"dmmap/internal/geom"
)

func points(n int) []geom.Point {
	out := make([]geom.Point, n)
	for i := range out {
		out[i] = geom.Point{ID: strconv.Itoa(i), Lat: float64(i) / 100, Lng: float64(i) / 50}
	}
	return out
}

func TestSetAtOrBelowThreshold(t *testing.T) {
	for _, n := range []int{0, 1, 499, 500} {
		c := New(500)
		vis, pending := c.Set(points(n))
		if len(vis) != n || pending != nil || c.Pending() {
			t.Errorf("n=%d: visible=%d pending=%v", n, len(vis), pending)
		}
	}
}

func TestSetAboveThresholdDefersFullReveal(t *testing.T) {
	c := New(500)
	full := points(501)
	vis, pending := c.Set(full)
	if len(vis) != 500 || pending == nil {
		t.Fatalf("visible=%d pending=%v", len(vis), pending)
	}
	for i := range vis {
		if vis[i].ID != full[i].ID {
			t.Fatalf("visible[%d] = %q, want prefix order", i, vis[i].ID)
		}
	}
	if !c.Reveal(pending.Gen) {
		t.Fatal("Reveal returned false for current generation")
	}
	if len(c.Visible()) != 501 || c.Pending() {
		t.Fatalf("after reveal visible=%d pending=%v", len(c.Visible()), c.Pending())
	}
	// one-shot
	if c.Reveal(pending.Gen) {
		t.Error("second Reveal changed state")
	}
}

func TestStaleRevealIsIgnored(t *testing.T) {
	c := New(500)
	_, first := c.Set(points(800))
	_, second := c.Set(points(900))
	if c.Reveal(first.Gen) {
		t.Fatal("stale reveal applied")
	}
	if len(c.Visible()) != 500 {
		t.Fatalf("visible = %d after stale reveal", len(c.Visible()))
	}
	if !c.Reveal(second.Gen) || len(c.Visible()) != 900 {
		t.Fatalf("fresh reveal: visible = %d", len(c.Visible()))
	}

	// a shrink below the threshold also supersedes a pending reveal
	_, third := c.Set(points(700))
	c.Set(points(10))
	if c.Reveal(third.Gen) || len(c.Visible()) != 10 {
		t.Fatalf("visible = %d", len(c.Visible()))
	}
}

func TestVisibleIsPrefixOfFull(t *testing.T) {
	c := New(3)
	c.Set(points(5))
	vis, full := c.Visible(), c.Full()
	if len(vis) > len(full) {
		t.Fatal("visible larger than full")
	}
	for i := range vis {
		if vis[i] != full[i] {
			t.Fatalf("visible[%d] = %+v, full[%d] = %+v", i, vis[i], i, full[i])
		}
	}
	// appending to visible must not write into full's backing array
	_ = append(vis, geom.Point{ID: "x"})
	if full[3].ID != "3" {
		t.Fatalf("full[3] clobbered: %+v", full[3])
	}
}

func TestZeroThresholdUsesDefault(t *testing.T) {
	var c Controller
	vis, pending := c.Set(points(DefaultThreshold + 1))
	if len(vis) != DefaultThreshold || pending == nil {
		t.Fatalf("visible=%d pending=%v", len(vis), pending)
	}
}

func TestIdleGate(t *testing.T) {
	g := IdleGate{Window: 100 * time.Millisecond}
	now := time.Now()
	if !g.Idle(now) {
		t.Fatal("fresh gate should be idle")
	}
	g.Touch(now)
	if g.Idle(now.Add(50 * time.Millisecond)) {
		t.Error("idle within window")
	}
	if !g.Idle(now.Add(100 * time.Millisecond)) {
		t.Error("not idle after window")
	}
}
