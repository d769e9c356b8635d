package mapview

import (
	"errors"
	"testing"

	"dmmap/internal/geom"
)

var london = geom.LatLng{Lat: 51.5074, Lng: -0.1278}

func sample() []geom.Point {
	return []geom.Point{
		{ID: "0", Lat: 40.39362333, Lng: -79.39362333},
		{ID: "1", Lat: 41.5, Lng: -80.25},
	}
}

func TestFocusFallsBackToCenter(t *testing.T) {
	s := New(london, Roadmap)
	s.Replace(sample())
	if got := s.Focus(); got != london {
		t.Fatalf("Focus without selection = %+v", got)
	}
	s.Select("1")
	if got := s.Focus(); got != (geom.LatLng{Lat: 41.5, Lng: -80.25}) {
		t.Fatalf("Focus = %+v", got)
	}
	// unknown id: selection is recorded but focus stays on the center
	s.Select("999")
	if id, ok := s.Selected(); !ok || id != "999" {
		t.Fatalf("Selected = %q, %v", id, ok)
	}
	if got := s.Focus(); got != london {
		t.Fatalf("Focus with unknown id = %+v", got)
	}
}

func TestReplaceClearsSelection(t *testing.T) {
	s := New(london, Roadmap)
	s.Replace(sample())
	s.Select("0")
	s.Replace(sample()[:1])
	if _, ok := s.Selected(); ok {
		t.Fatal("selection survived Replace")
	}
}

func TestAddPoint(t *testing.T) {
	s := New(london, Roadmap)
	s.Replace(sample())
	before := s.Points()

	p, err := s.AddPoint(" 12.5 ", "-3.25")
	if err != nil {
		t.Fatal(err)
	}
	if p != (geom.Point{ID: "2", Lat: 12.5, Lng: -3.25}) {
		t.Fatalf("added %+v", p)
	}
	if len(s.Points()) != 3 || len(before) != 2 {
		t.Fatalf("points = %d, previous slice = %d", len(s.Points()), len(before))
	}
}

func TestAddPointRejectsNonFinite(t *testing.T) {
	for _, in := range [][2]string{
		{"abc", "1"},
		{"1", ""},
		{"NaN", "1"},
		{"1", "Inf"},
		{"-Infinity", "1"},
		{"1e400", "1"},
	} {
		s := New(london, Roadmap)
		s.Replace(sample())
		_, err := s.AddPoint(in[0], in[1])
		if !errors.Is(err, ErrInvalidManualPoint) {
			t.Errorf("AddPoint(%q, %q) err = %v", in[0], in[1], err)
		}
		if len(s.Points()) != 2 {
			t.Errorf("AddPoint(%q, %q) mutated the list", in[0], in[1])
		}
	}
}

// Latitude 200 is physically impossible but finite. It is accepted as-is
// today; range validation is a candidate follow-up.
func TestAddPointOutOfRangeIsAccepted(t *testing.T) {
	s := New(london, Roadmap)
	p, err := s.AddPoint("200", "500")
	if err != nil {
		t.Fatalf("AddPoint(200, 500): %v", err)
	}
	if p.ID != "0" || p.Lat != 200 || p.Lng != 500 {
		t.Fatalf("added %+v", p)
	}
}

func TestStyleDoesNotTouchSelection(t *testing.T) {
	s := New(london, Roadmap)
	s.Replace(sample())
	s.Select("1")
	s.SetStyle(Terrain)
	if id, ok := s.Selected(); !ok || id != "1" {
		t.Fatalf("selection = %q, %v", id, ok)
	}
	if s.TileURL() != "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png" {
		t.Fatalf("TileURL = %q", s.TileURL())
	}
	if len(s.Points()) != 2 {
		t.Fatal("style change touched points")
	}
}

func TestProps(t *testing.T) {
	s := New(london, Roadmap)
	p := s.Props(nil)
	if p.Center != london || p.Locations == nil || len(p.Locations) != 0 || !p.Track {
		t.Fatalf("Props = %+v", p)
	}
}

func TestToggleTrack(t *testing.T) {
	s := New(london, Roadmap)
	s.Replace(sample())
	s.Select("0")
	if !s.ShowTrack() {
		t.Fatal("track hidden by default")
	}
	if s.ToggleTrack() || s.ShowTrack() || s.Props(s.Points()).Track {
		t.Fatal("track still shown after toggle")
	}
	if id, ok := s.Selected(); !ok || id != "0" || len(s.Points()) != 2 {
		t.Fatalf("toggle touched selection or points: %q %v", id, ok)
	}
	if !s.ToggleTrack() || !s.Props(nil).Track {
		t.Fatal("track not restored")
	}
}
