package scene

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// segmentAxis is the principal axis of the segment geometry before rotation.
var segmentAxis = math32.Vec3(0, 1, 0)

// SegmentNode is the connector drawn between two consecutive steps. It is
// rebuilt on every update and never outlives the update that created it.
// from and to are non-owning: discarding a segment leaves its steps intact.
type SegmentNode struct {
	Base
	Material

	from, to    *StepNode
	radius      float32
	position    math32.Vector3
	orientation math32.Quat
	length      float32
}

// NewSegmentNode derives the connector geometry from the current world
// positions of from and to. Coincident endpoints give a zero-length segment
// with identity orientation.
func NewSegmentNode(from, to *StepNode, radius float32) *SegmentNode {
	sg := &SegmentNode{
		Material: Material{Color: DefaultSegmentColor},
		from:     from,
		to:       to,
		radius:   radius,
	}
	sg.init(sg, KindSegment, "segment-"+from.SourceID()+"-"+to.SourceID())

	a := from.WorldPosition()
	b := to.WorldPosition()
	delta := b.Sub(a)

	sg.position = a.Add(b).MulScalar(0.5)
	sg.length = delta.Length()
	sg.orientation.SetIdentity()
	if sg.length > 0 {
		sg.orientation.SetFromUnitVectors(segmentAxis, delta.DivScalar(sg.length))
	}
	return sg
}

func (sg *SegmentNode) From() *StepNode {
	return sg.from
}

func (sg *SegmentNode) To() *StepNode {
	return sg.to
}

func (sg *SegmentNode) Radius() float32 {
	return sg.radius
}

// Position is the midpoint of the two endpoints.
func (sg *SegmentNode) Position() math32.Vector3 {
	return sg.position
}

// Orientation rotates +Y onto the from->to direction.
func (sg *SegmentNode) Orientation() math32.Quat {
	return sg.orientation
}

func (sg *SegmentNode) Length() float32 {
	return sg.length
}

func (sg *SegmentNode) AppliedColor() color.RGBA {
	return sg.Color
}

func (sg *SegmentNode) ApplyColor(c color.RGBA) {
	sg.Color = c
}
