package spatialindex

import (
	"math"

	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/route"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr *rtree.RTreeG[LegEntry]
}

// LegEntry identifies one leg (consecutive step pair) of the indexed route.
type LegEntry struct {
	from int
	to   int
	a, b geo.Coordinate
}

func (le LegEntry) GetFrom() int {
	return le.from
}

func (le LegEntry) GetTo() int {
	return le.to
}

func (le LegEntry) GetA() geo.Coordinate {
	return le.a
}

func (le LegEntry) GetB() geo.Coordinate {
	return le.b
}

func newLegEntry(leg route.Leg) LegEntry {
	return LegEntry{
		from: leg.From,
		to:   leg.To,
		a:    leg.A,
		b:    leg.B,
	}
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[LegEntry]
	return &Rtree{
		tr: &tr,
	}
}

// Build. index every leg of r, with each leaf bounding box padded by boundingBoxRadius (in meters)
func (rt *Rtree) Build(r route.Route, boundingBoxRadius float64, log *zap.Logger) {
	log.Debug("Building R-tree spatial index...", zap.String("route", r.ID))
	for _, leg := range r.Legs() {
		minLon, minLat, maxLon, maxLat := paddedBounds(boundingBoxRadius, leg.A, leg.B)
		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, newLegEntry(leg))
	}
	log.Debug("R-tree spatial index built.", zap.String("route", r.ID), zap.Int("legs", rt.tr.Len()))
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius returns the legs whose padded bounding box intersects the
// square of half-size radius (in meters) around (qLat, qLon).
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []LegEntry {
	minLon, minLat, maxLon, maxLat := paddedBounds(radius, geo.NewCoordinate(qLat, qLon))

	results := make([]LegEntry, 0, 8)
	rt.tr.Search([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(min, max [2]float64, data LegEntry) bool {
			results = append(results, data)
			return true
		})
	return results
}

func paddedBounds(radius float64, coords ...geo.Coordinate) (minLon, minLat, maxLon, maxLat float64) {
	minLon, minLat = math.Inf(1), math.Inf(1)
	maxLon, maxLat = math.Inf(-1), math.Inf(-1)
	for _, c := range coords {
		northLat, _ := geo.GetDestinationPoint(c.Lat, c.Lon, 0, radius)
		southLat, _ := geo.GetDestinationPoint(c.Lat, c.Lon, 180, radius)
		_, eastLon := geo.GetDestinationPoint(c.Lat, c.Lon, 90, radius)
		_, westLon := geo.GetDestinationPoint(c.Lat, c.Lon, 270, radius)

		minLat = math.Min(minLat, southLat)
		maxLat = math.Max(maxLat, northLat)
		minLon = math.Min(minLon, westLon)
		maxLon = math.Max(maxLon, eastLon)
	}
	return minLon, minLat, maxLon, maxLat
}
