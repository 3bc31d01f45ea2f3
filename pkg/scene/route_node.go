package scene

import (
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
)

const (
	DefaultSegmentRadius float32 = 0.2
)

// Waypoint is a route-step record as supplied by the routing service.
type Waypoint interface {
	GetID() string
	GetCoordinate() geo.Coordinate
}

type RouteOption func(*RouteNode)

// WithSegmentRadius sets the thickness of the connectors between steps.
func WithSegmentRadius(radius float32) RouteOption {
	return func(rn *RouteNode) {
		rn.segmentRadius = radius
	}
}

// RouteNode owns the steps of one route, in traversal order, and the
// segments between consecutive steps.
type RouteNode struct {
	Base

	sourceID      string
	stepNodes     []*StepNode
	lineNodes     []*SegmentNode
	segmentRadius float32
	built         bool
	updates       uint64
}

// NewRouteNode builds one StepNode per waypoint and attaches them in order.
// Step positions are undefined until the first UpdateWith.
func NewRouteNode[W Waypoint](id string, waypoints []W, opts ...RouteOption) *RouteNode {
	rn := &RouteNode{
		sourceID:      id,
		segmentRadius: DefaultSegmentRadius,
		stepNodes:     make([]*StepNode, 0, len(waypoints)),
	}
	rn.init(rn, KindRoute, "route-"+id)
	for _, opt := range opts {
		opt(rn)
	}

	for _, w := range waypoints {
		sn := NewStepNode(w.GetID(), w.GetCoordinate())
		rn.stepNodes = append(rn.stepNodes, sn)
		rn.AddChild(sn)
	}
	rn.built = true
	return rn
}

func (rn *RouteNode) SourceID() string {
	return rn.sourceID
}

func (rn *RouteNode) Steps() []*StepNode {
	return rn.stepNodes
}

// Segments returns the connectors built by the last update; Segments()[i]
// joins Steps()[i] and Steps()[i+1].
func (rn *RouteNode) Segments() []*SegmentNode {
	return rn.lineNodes
}

func (rn *RouteNode) SegmentRadius() float32 {
	return rn.segmentRadius
}

// Updated reports whether UpdateWith has run at least once.
func (rn *RouteNode) Updated() bool {
	return rn.updates > 0
}

func (rn *RouteNode) Updates() uint64 {
	return rn.updates
}

// UpdateWith refreshes the tree for one pose/location sample.
func (rn *RouteNode) UpdateWith(cameraTransform math32.Matrix4, currentCoordinate geo.Coordinate,
	thresholdDistance float64) {
	util.AssertPanic(rn != nil && rn.built, "scene: UpdateWith on a route that was not built with NewRouteNode")
	rn.refresh(cameraTransform, currentCoordinate, thresholdDistance)
}

/*
refresh runs the four phases of an update, in order and without interruption:

 1. fan-out: every step recomputes its position and threshold flag
 2. clear: the previous segments are detached and dropped
 3. rebuild: one segment per adjacent step pair, from the fresh positions
 4. attach: the new segments become children of the route

Segments are never built from positions of an older sample.
*/
func (rn *RouteNode) refresh(cameraTransform math32.Matrix4, currentCoordinate geo.Coordinate,
	thresholdDistance float64) {
	for _, sn := range rn.stepNodes {
		sn.UpdateWith(cameraTransform, currentCoordinate, thresholdDistance)
	}

	rn.clearLineNodes()

	lineNodes := rn.buildLineNodes()

	for _, ln := range lineNodes {
		rn.attachSegment(ln)
	}
	rn.lineNodes = lineNodes
	rn.updates++
}

func (rn *RouteNode) buildLineNodes() []*SegmentNode {
	stepsCount := len(rn.stepNodes)
	if stepsCount < 2 {
		return nil
	}

	lineNodes := make([]*SegmentNode, 0, stepsCount-1)
	for i := 0; i < stepsCount-1; i++ {
		lineNodes = append(lineNodes, NewSegmentNode(rn.stepNodes[i], rn.stepNodes[i+1], rn.segmentRadius))
	}
	return lineNodes
}

func (rn *RouteNode) clearLineNodes() {
	for _, ln := range rn.lineNodes {
		ln.RemoveFromParent()
	}
	rn.lineNodes = nil
}

func (rn *RouteNode) attachSegment(sg *SegmentNode) {
	util.AssertPanic(rn.ownsStep(sg.from) && rn.ownsStep(sg.to),
		"scene: segment "+sg.Name()+" joins steps that do not belong to route "+rn.sourceID)
	rn.AddChild(sg)
}

func (rn *RouteNode) ownsStep(sn *StepNode) bool {
	return sn != nil && sn.Parent() != nil && sn.Parent().AsBase() == &rn.Base
}

// ApplyColor colors every step and every current segment. Segments built by
// later updates start with DefaultSegmentColor.
func (rn *RouteNode) ApplyColor(c color.RGBA) {
	for _, sn := range rn.stepNodes {
		sn.ApplyColor(c)
	}
	for _, ln := range rn.lineNodes {
		ln.ApplyColor(c)
	}
}

// Discard detaches the route from its parent and drops its segments. The
// route must not be updated afterwards.
func (rn *RouteNode) Discard() {
	rn.clearLineNodes()
	rn.RemoveFromParent()
	rn.built = false
}
