package mapview

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStyle = errors.New("unknown map style")

type Style int

const (
	Roadmap Style = iota
	Satellite
	Hybrid
	Terrain
)

var styleNames = [...]string{
	Roadmap:   "Roadmap",
	Satellite: "Satellite",
	Hybrid:    "Hybrid",
	Terrain:   "Terrain",
}

// tile URL templates, {s} subdomain, {z}/{x}/{y} tile coordinates
var tileURLs = [...]string{
	Roadmap:   "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
	Satellite: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
	Hybrid:    "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
	Terrain:   "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
}

func Styles() []Style { return []Style{Roadmap, Satellite, Hybrid, Terrain} }

func (s Style) valid() bool { return s >= Roadmap && s <= Terrain }

func (s Style) String() string {
	if !s.valid() {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// TileURL returns the tile source template for s; unknown styles fall back
// to Roadmap.
func (s Style) TileURL() string {
	if !s.valid() {
		return tileURLs[Roadmap]
	}
	return tileURLs[s]
}

func (s Style) Next() Style {
	if !s.valid() {
		return Roadmap
	}
	return (s + 1) % Style(len(styleNames))
}

func ParseStyle(name string) (Style, error) {
	for _, s := range Styles() {
		if strings.EqualFold(strings.TrimSpace(name), styleNames[s]) {
			return s, nil
		}
	}
	return Roadmap, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}
