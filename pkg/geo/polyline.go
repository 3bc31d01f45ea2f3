package geo

import (
	"fmt"

	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes coords as a Google encoded polyline (precision 5).
func PolylineFromCoords(coords []Coordinate) string {
	s := make([][]float64, len(coords))
	for i, c := range coords {
		s[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(s))
}

// CoordsFromPolyline decodes a Google encoded polyline.
func CoordsFromPolyline(encoded string) ([]Coordinate, error) {
	s, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
	}
	coords := make([]Coordinate, len(s))
	for i, p := range s {
		coords[i] = NewCoordinate(p[0], p[1])
	}
	return coords, nil
}
