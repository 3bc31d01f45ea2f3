package scene

import (
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
)

// Marker is the visual pin drawn at a step.
type Marker struct {
	Base
	Material
}

func newMarker(name string) *Marker {
	m := &Marker{Material: Material{Color: DefaultMarkerColor}}
	m.init(m, KindMarker, name)
	return m
}

// StepNode is one route waypoint anchored in world space.
type StepNode struct {
	Base
	GeoAnchor
	Material

	marker          *Marker
	distance        float64
	withinThreshold bool
}

func NewStepNode(sourceID string, anchor geo.Coordinate) *StepNode {
	sn := &StepNode{
		GeoAnchor: newGeoAnchor(anchor, sourceID),
		Material:  Material{Color: DefaultStepColor},
	}
	sn.init(sn, KindStep, "step-"+sourceID)

	sn.marker = newMarker("marker-" + sourceID)
	sn.AddChild(sn.marker)
	return sn
}

// UpdateWith recomputes the world position and the threshold flag. The flag is
// inclusive: a step exactly thresholdDistance meters away is within threshold.
func (sn *StepNode) UpdateWith(cameraTransform math32.Matrix4, currentCoordinate geo.Coordinate,
	thresholdDistance float64) {
	sn.updatePosition(cameraTransform, currentCoordinate)

	sn.distance = geo.GreatCircleDistance(currentCoordinate, sn.anchor)
	sn.withinThreshold = sn.distance <= thresholdDistance
}

func (sn *StepNode) IsWithinThreshold() bool {
	return sn.withinThreshold
}

// Distance returns the device-to-step distance in meters from the last update.
func (sn *StepNode) Distance() float64 {
	return sn.distance
}

func (sn *StepNode) AppliedColor() color.RGBA {
	return sn.Color
}

func (sn *StepNode) Marker() *Marker {
	return sn.marker
}

func (sn *StepNode) ApplyColor(c color.RGBA) {
	sn.Color = c
	sn.marker.Color = c
}
