package geom

// Point is one accepted coordinate in decimal degrees.
// ID is the zero-based acceptance index within the run that produced it.
type Point struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) LatLng() LatLng { return LatLng{Lat: p.Lat, Lng: p.Lng} }

// BBox uses X for longitude and Y for latitude.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b BBox) Center() LatLng {
	return LatLng{Lat: (b.MinY + b.MaxY) / 2, Lng: (b.MinX + b.MaxX) / 2}
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Bounds returns the bbox of pts; ok is false for an empty list.
func Bounds(pts []Point) (bbox BBox, ok bool) {
	for i, p := range pts {
		if i == 0 {
			bbox = BBox{MinX: p.Lng, MinY: p.Lat, MaxX: p.Lng, MaxY: p.Lat}
			continue
		}
		if p.Lng < bbox.MinX {
			bbox.MinX = p.Lng
		}
		if p.Lat < bbox.MinY {
			bbox.MinY = p.Lat
		}
		if p.Lng > bbox.MaxX {
			bbox.MaxX = p.Lng
		}
		if p.Lat > bbox.MaxY {
			bbox.MaxY = p.Lat
		}
	}
	return bbox, len(pts) > 0
}
