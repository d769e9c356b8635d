package geom

// GeoJSON output for the current point list. Positions are [lng, lat] as
// RFC 7946 requires.

type FeatureCollection struct {
	Type     string    `json:"type"`
	BBox     []float64 `json:"bbox,omitempty"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Geometry   PointGeometry  `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// ToGeoJSON wraps pts in a FeatureCollection, one Point feature each, in
// list order.
func ToGeoJSON(pts []Point) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(pts))}
	if bb, ok := Bounds(pts); ok {
		fc.BBox = []float64{bb.MinX, bb.MinY, bb.MaxX, bb.MaxY}
	}
	for _, p := range pts {
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			ID:         p.ID,
			Geometry:   PointGeometry{Type: "Point", Coordinates: [2]float64{p.Lng, p.Lat}},
			Properties: map[string]any{"id": p.ID},
		})
	}
	return fc
}
