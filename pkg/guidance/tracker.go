package guidance

import (
	"math"

	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/route"
	"github.com/lintang-b-s/navigatorx-ar/pkg/spatialindex"
	"go.uber.org/zap"
)

// Progress describes where the device is relative to the route.
type Progress struct {
	OffRoute bool `json:"off_route"`
	// NearestLeg is the index of the closest leg, -1 when none lies within tolerance.
	NearestLeg      int     `json:"nearest_leg"`
	DistanceToRoute float64 `json:"distance_to_route"`
	// NextStep is the step the device is heading to on NearestLeg.
	NextStep           int     `json:"next_step"`
	DistanceToNextStep float64 `json:"distance_to_next_step"`
}

// Tracker answers on-route/off-route queries for one route.
type Tracker struct {
	route     route.Route
	index     SpatialIndex
	tolerance float64
}

// NewTracker indexes the legs of r. tolerance is the off-route distance in meters.
func NewTracker(r route.Route, tolerance float64, log *zap.Logger) *Tracker {
	rt := spatialindex.NewRtree()
	rt.Build(r, tolerance, log)
	return &Tracker{
		route:     r,
		index:     rt,
		tolerance: tolerance,
	}
}

func (t *Tracker) Tolerance() float64 {
	return t.tolerance
}

/*
Progress. the device is on route when some leg lies within tolerance meters of
coord. legs are pre-filtered by the r-tree, then ranked by s2 point-to-segment
distance. ties go to the later leg.
a route with a single step has no legs; it is judged by the distance to that step.
*/
func (t *Tracker) Progress(coord geo.Coordinate) Progress {
	steps := t.route.Steps
	if len(steps) == 0 {
		return Progress{OffRoute: true, NearestLeg: -1, NextStep: -1, DistanceToRoute: math.Inf(1),
			DistanceToNextStep: math.Inf(1)}
	}
	if len(steps) == 1 {
		d := geo.GreatCircleDistance(coord, steps[0].Coordinate)
		return Progress{
			OffRoute:           d > t.tolerance,
			NearestLeg:         -1,
			DistanceToRoute:    d,
			NextStep:           0,
			DistanceToNextStep: d,
		}
	}

	best := -1
	bestDist := math.Inf(1)
	for _, le := range t.index.SearchWithinRadius(coord.Lat, coord.Lon, t.tolerance) {
		d := geo.PointLinePerpendicularDistance(le.GetA(), le.GetB(), coord)
		if d < bestDist || (d == bestDist && le.GetFrom() > best) {
			best = le.GetFrom()
			bestDist = d
		}
	}

	if best < 0 || bestDist > t.tolerance {
		next := t.nearestStep(coord)
		return Progress{
			OffRoute:           true,
			NearestLeg:         -1,
			DistanceToRoute:    t.distanceToRoute(coord),
			NextStep:           next,
			DistanceToNextStep: geo.GreatCircleDistance(coord, steps[next].Coordinate),
		}
	}

	next := best + 1
	return Progress{
		OffRoute:           false,
		NearestLeg:         best,
		DistanceToRoute:    bestDist,
		NextStep:           next,
		DistanceToNextStep: geo.GreatCircleDistance(coord, steps[next].Coordinate),
	}
}

func (t *Tracker) nearestStep(coord geo.Coordinate) int {
	best := 0
	bestDist := math.Inf(1)
	for i, s := range t.route.Steps {
		d := geo.GreatCircleDistance(coord, s.Coordinate)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// distanceToRoute scans every leg; used only once the index found nothing nearby.
func (t *Tracker) distanceToRoute(coord geo.Coordinate) float64 {
	best := math.Inf(1)
	for _, leg := range t.route.Legs() {
		best = math.Min(best, geo.PointLinePerpendicularDistance(leg.A, leg.B, coord))
	}
	return best
}
