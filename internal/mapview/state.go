// Package mapview holds the presentation state around the point list:
// selection, map style, focus and the animated pan towards it.
package mapview

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"dmmap/internal/geom"
)

var ErrInvalidManualPoint = errors.New("invalid latitude or longitude")

// Props is what the map widget consumes.
type Props struct {
	Center    geom.LatLng  `json:"center"`
	Locations []geom.Point `json:"locations"`
	// Track joins Locations in list order.
	Track bool `json:"track"`
}

type State struct {
	points []geom.Point

	selected    string
	hasSelected bool

	style  Style
	center geom.LatLng
	track  bool
}

// New starts with the track shown.
func New(center geom.LatLng, style Style) State {
	return State{center: center, style: style, track: true}
}

func (s *State) Points() []geom.Point { return s.points }

// Replace installs a freshly ingested list. Ids restart at "0" with every
// ingestion, so an existing selection would point at an unrelated point
// and is cleared.
func (s *State) Replace(pts []geom.Point) {
	s.points = pts
	s.ClearSelection()
}

// AddPoint appends one manually entered point given as plain decimal
// degrees. Both values must parse to finite numbers; range is not checked.
func (s *State) AddPoint(latText, lngText string) (geom.Point, error) {
	lat, err := parseDecimal(latText)
	if err != nil {
		return geom.Point{}, err
	}
	lng, err := parseDecimal(lngText)
	if err != nil {
		return geom.Point{}, err
	}
	p := geom.Point{ID: strconv.Itoa(len(s.points)), Lat: lat, Lng: lng}
	next := make([]geom.Point, len(s.points), len(s.points)+1)
	copy(next, s.points)
	s.points = append(next, p)
	return p, nil
}

func parseDecimal(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidManualPoint, text)
	}
	return v, nil
}

func (s *State) Select(id string) {
	s.selected = id
	s.hasSelected = true
}

func (s *State) ClearSelection() {
	s.selected = ""
	s.hasSelected = false
}

func (s *State) Selected() (string, bool) { return s.selected, s.hasSelected }

func (s *State) SelectedPoint() (geom.Point, bool) {
	if !s.hasSelected {
		return geom.Point{}, false
	}
	for _, p := range s.points {
		if p.ID == s.selected {
			return p, true
		}
	}
	return geom.Point{}, false
}

// Focus is the selected point when it exists in the list, otherwise the
// default center.
func (s *State) Focus() geom.LatLng {
	if p, ok := s.SelectedPoint(); ok {
		return p.LatLng()
	}
	return s.center
}

func (s *State) Center() geom.LatLng     { return s.center }
func (s *State) SetCenter(c geom.LatLng) { s.center = c }

func (s *State) Style() Style         { return s.style }
func (s *State) SetStyle(style Style) { s.style = style }
func (s *State) TileURL() string      { return s.style.TileURL() }

func (s *State) ShowTrack() bool { return s.track }

// ToggleTrack flips the track line and reports the new setting.
func (s *State) ToggleTrack() bool {
	s.track = !s.track
	return s.track
}

func (s *State) Props(visible []geom.Point) Props {
	if visible == nil {
		visible = []geom.Point{}
	}
	return Props{Center: s.center, Locations: visible, Track: s.track}
}
