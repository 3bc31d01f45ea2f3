package scene

import (
	"fmt"
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
)

type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func newVec3(v math32.Vector3) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

type Quat struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

type StepSnapshot struct {
	ID              string         `json:"id"`
	Coordinate      geo.Coordinate `json:"coordinate"`
	Position        Vec3           `json:"position"`
	Distance        float64        `json:"distance"`
	WithinThreshold bool           `json:"within_threshold"`
	Color           string         `json:"color"`
}

type SegmentSnapshot struct {
	From        int     `json:"from"`
	To          int     `json:"to"`
	Position    Vec3    `json:"position"`
	Orientation Quat    `json:"orientation"`
	Length      float32 `json:"length"`
	Radius      float32 `json:"radius"`
	Color       string  `json:"color"`
}

type RouteSnapshot struct {
	ID       string            `json:"id"`
	Updates  uint64            `json:"updates"`
	Steps    []StepSnapshot    `json:"steps"`
	Segments []SegmentSnapshot `json:"segments"`
}

// Snapshot copies the current state of the tree. It panics if the route has
// never been updated, since positions are undefined until then.
func (rn *RouteNode) Snapshot() RouteSnapshot {
	util.AssertPanic(rn.Updated(), "scene: snapshot of route "+rn.sourceID+" before its first update")

	snap := RouteSnapshot{
		ID:       rn.sourceID,
		Updates:  rn.updates,
		Steps:    make([]StepSnapshot, len(rn.stepNodes)),
		Segments: make([]SegmentSnapshot, len(rn.lineNodes)),
	}
	for i, sn := range rn.stepNodes {
		snap.Steps[i] = StepSnapshot{
			ID:              sn.SourceID(),
			Coordinate:      sn.AnchorCoordinate(),
			Position:        newVec3(sn.WorldPosition()),
			Distance:        sn.Distance(),
			WithinThreshold: sn.IsWithinThreshold(),
			Color:           HexColor(sn.AppliedColor()),
		}
	}
	for i, ln := range rn.lineNodes {
		q := ln.Orientation()
		snap.Segments[i] = SegmentSnapshot{
			From:        i,
			To:          i + 1,
			Position:    newVec3(ln.Position()),
			Orientation: Quat{X: q.X, Y: q.Y, Z: q.Z, W: q.W},
			Length:      ln.Length(),
			Radius:      ln.Radius(),
			Color:       HexColor(ln.AppliedColor()),
		}
	}
	return snap
}

// HexColor formats c as #rrggbb, appending the alpha byte when not opaque.
func HexColor(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
