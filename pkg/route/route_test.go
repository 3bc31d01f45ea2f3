package route

import (
	"errors"
	"math"
	"testing"

	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = geo.NewCoordinate(-7.7956, 110.3695)

func TestNewRouteDistances(t *testing.T) {
	r := NewRoute("r", []Step{
		NewStep("a", origin, "start"),
		NewStep("b", origin.Destination(0, 100), "turn right"),
		NewStep("c", origin.Destination(0, 100).Destination(90, 40), "arrive"),
	})

	assert.Equal(t, 0.0, r.Steps[0].Distance)
	assert.InDelta(t, 100, r.Steps[1].Distance, 1e-3)
	assert.InDelta(t, 40, r.Steps[2].Distance, 1e-3)
	assert.InDelta(t, 140, r.Length(), 1e-3)

	legs := r.Legs()
	require.Len(t, legs, 2)
	assert.Equal(t, 1, legs[1].From)
	assert.Equal(t, 2, legs[1].To)
	assert.Equal(t, r.Steps[2].Coordinate, legs[1].B)
}

func TestLegsShortRoute(t *testing.T) {
	assert.Empty(t, NewRoute("r", []Step{NewStep("a", origin, "")}).Legs())
	assert.Empty(t, Route{ID: "r"}.Legs())
}

func TestFromPolyline(t *testing.T) {
	r, err := FromPolyline("p", "_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, r.Steps, 3)
	assert.Equal(t, "0", r.Steps[0].ID)
	assert.Equal(t, "2", r.Steps[2].ID)
	assert.InDelta(t, 38.5, r.Steps[0].Coordinate.Lat, 1e-5)
	assert.InDelta(t, -126.453, r.Steps[2].Coordinate.Lon, 1e-5)
	assert.Greater(t, r.Steps[1].Distance, 0.0)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", r.Polyline())

	_, err = FromPolyline("bad", "_p~iF~ps|U_")
	require.Error(t, err)
	assert.Equal(t, util.ErrBadParamInput, util.ErrorCode(err))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		route   Route
		wantErr bool
	}{
		{
			name:  "valid",
			route: NewRoute("r", []Step{NewStep("a", origin, ""), NewStep("b", origin.Destination(0, 5), "")}),
		},
		{
			name:    "missing id",
			route:   Route{Steps: []Step{NewStep("a", origin, "")}},
			wantErr: true,
		},
		{
			name:    "no steps",
			route:   Route{ID: "r"},
			wantErr: true,
		},
		{
			name:    "step without id",
			route:   Route{ID: "r", Steps: []Step{NewStep("", origin, "")}},
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			route:   Route{ID: "r", Steps: []Step{NewStep("a", geo.NewCoordinate(91, 0), "")}},
			wantErr: true,
		},
		{
			name:    "longitude out of range",
			route:   Route{ID: "r", Steps: []Step{NewStep("a", geo.NewCoordinate(0, -180.5), "")}},
			wantErr: true,
		},
		{
			name:    "nan coordinate",
			route:   Route{ID: "r", Steps: []Step{NewStep("a", geo.NewCoordinate(math.NaN(), 0), "")}},
			wantErr: true,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.route)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(util.ErrorCode(err), util.ErrBadParamInput))
		})
	}
}
