package route

import (
	"fmt"
	"strconv"

	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
)

// Step is one waypoint of a route as delivered by the routing service.
type Step struct {
	ID          string         `json:"id" validate:"required"`
	Coordinate  geo.Coordinate `json:"coordinate"`
	Instruction string         `json:"instruction,omitempty"`
	Distance    float64        `json:"distance"` // meters from the previous step
}

func NewStep(id string, coord geo.Coordinate, instruction string) Step {
	return Step{
		ID:          id,
		Coordinate:  coord,
		Instruction: instruction,
	}
}

func (s Step) GetID() string {
	return s.ID
}

func (s Step) GetCoordinate() geo.Coordinate {
	return s.Coordinate
}

type Route struct {
	ID    string `json:"id" validate:"required"`
	Steps []Step `json:"steps" validate:"required,min=1,dive"`
}

// NewRoute fills in every step distance from its predecessor.
func NewRoute(id string, steps []Step) Route {
	for i := range steps {
		if i == 0 {
			steps[i].Distance = 0
			continue
		}
		steps[i].Distance = geo.GreatCircleDistance(steps[i-1].Coordinate, steps[i].Coordinate)
	}
	return Route{ID: id, Steps: steps}
}

// FromPolyline builds a route with one step per polyline vertex. Step ids are
// the vertex index.
func FromPolyline(id, encoded string) (Route, error) {
	coords, err := geo.CoordsFromPolyline(encoded)
	if err != nil {
		return Route{}, util.WrapErrorf(err, util.ErrBadParamInput, "route %s", id)
	}
	steps := make([]Step, len(coords))
	for i, c := range coords {
		steps[i] = NewStep(strconv.Itoa(i), c, "")
	}
	return NewRoute(id, steps), nil
}

func (r Route) Coordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, len(r.Steps))
	for i, s := range r.Steps {
		coords[i] = s.Coordinate
	}
	return coords
}

func (r Route) Polyline() string {
	return geo.PolylineFromCoords(r.Coordinates())
}

// Length is the sum of step distances in meters.
func (r Route) Length() float64 {
	total := 0.0
	for _, s := range r.Steps {
		total += s.Distance
	}
	return total
}

type Leg struct {
	From, To int
	A, B     geo.Coordinate
}

// Legs returns the consecutive step pairs of r.
func (r Route) Legs() []Leg {
	if len(r.Steps) < 2 {
		return nil
	}
	legs := make([]Leg, 0, len(r.Steps)-1)
	for i := 0; i < len(r.Steps)-1; i++ {
		legs = append(legs, Leg{From: i, To: i + 1, A: r.Steps[i].Coordinate, B: r.Steps[i+1].Coordinate})
	}
	return legs
}

func (r Route) String() string {
	return fmt.Sprintf("route %s (%d steps, %.1f m)", r.ID, len(r.Steps), r.Length())
}
