package guidance

import (
	"testing"

	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/route"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var origin = geo.NewCoordinate(-7.7956, 110.3695)

func lShapedRoute() route.Route {
	corner := origin.Destination(0, 200)
	return route.NewRoute("r", []route.Step{
		route.NewStep("a", origin, "head north"),
		route.NewStep("b", corner, "turn right"),
		route.NewStep("c", corner.Destination(90, 200), "arrive"),
	})
}

func TestTrackerProgress(t *testing.T) {
	tr := NewTracker(lShapedRoute(), 30, zap.NewNop())
	corner := origin.Destination(0, 200)

	testCases := []struct {
		name         string
		coord        geo.Coordinate
		wantOffRoute bool
		wantLeg      int
		wantNext     int
	}{
		{name: "start of route", coord: origin, wantLeg: 0, wantNext: 1},
		{name: "beside first leg", coord: origin.Destination(0, 100).Destination(90, 10), wantLeg: 0, wantNext: 1},
		{name: "on second leg", coord: corner.Destination(90, 120), wantLeg: 1, wantNext: 2},
		{name: "just past the corner", coord: corner.Destination(90, 5), wantLeg: 1, wantNext: 2},
		{name: "far from the route", coord: origin.Destination(0, 50).Destination(270, 80), wantOffRoute: true, wantLeg: -1, wantNext: 0},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			p := tr.Progress(tt.coord)
			assert.Equal(t, tt.wantOffRoute, p.OffRoute)
			assert.Equal(t, tt.wantLeg, p.NearestLeg)
			assert.Equal(t, tt.wantNext, p.NextStep)
			if tt.wantOffRoute {
				assert.Greater(t, p.DistanceToRoute, tr.Tolerance())
			} else {
				assert.LessOrEqual(t, p.DistanceToRoute, tr.Tolerance())
			}
		})
	}
}

func TestTrackerSingleStep(t *testing.T) {
	r := route.NewRoute("r", []route.Step{route.NewStep("a", origin, "")})
	tr := NewTracker(r, 15, zap.NewNop())

	near := tr.Progress(origin.Destination(45, 10))
	assert.False(t, near.OffRoute)
	assert.Equal(t, 0, near.NextStep)
	assert.InDelta(t, 10, near.DistanceToNextStep, 1e-3)

	far := tr.Progress(origin.Destination(45, 16))
	assert.True(t, far.OffRoute)
}

func TestTrackerEmptyRoute(t *testing.T) {
	tr := NewTracker(route.Route{ID: "empty"}, 15, zap.NewNop())
	p := tr.Progress(origin)
	assert.True(t, p.OffRoute)
	assert.Equal(t, -1, p.NextStep)
}
