package scene

import (
	"math"

	"cogentcore.org/core/math32"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
)

/*
ComputePosition places anchor in world space given the camera transform and the
device coordinate at the same instant.

World space is the gravity-and-heading aligned tracking frame:

	+X east, +Y up, -Z true north

The great-circle bearing and distance from device to anchor become a horizontal
offset in that frame, which is added to the camera translation (column 3 of the
column-major transform). The camera rotation only changes where the device is
looking, not where the anchor is, so it is ignored.

Identical coordinates yield the camera translation itself. Out-of-range or NaN
coordinates are not rejected; they produce whatever the math implies.
*/
func ComputePosition(cameraTransform math32.Matrix4, device, anchor geo.Coordinate) math32.Vector3 {
	origin := translation(cameraTransform)

	dist := geo.GreatCircleDistance(device, anchor)
	if dist == 0 {
		return origin
	}
	bearing := util.DegreeToRadians(geo.Bearing(device, anchor))

	east := dist * math.Sin(bearing)
	north := dist * math.Cos(bearing)
	return origin.Add(math32.Vec3(float32(east), 0, float32(-north)))
}

func translation(m math32.Matrix4) math32.Vector3 {
	return math32.Vec3(m[12], m[13], m[14])
}

// GeoAnchor binds a node to a fixed geographic coordinate and holds the world
// position computed for it by the last update.
type GeoAnchor struct {
	anchor   geo.Coordinate
	position math32.Vector3
	sourceID string
}

func newGeoAnchor(anchor geo.Coordinate, sourceID string) GeoAnchor {
	return GeoAnchor{anchor: anchor, sourceID: sourceID}
}

func (g *GeoAnchor) AnchorCoordinate() geo.Coordinate {
	return g.anchor
}

// WorldPosition is only meaningful after the owning route has been updated at least once.
func (g *GeoAnchor) WorldPosition() math32.Vector3 {
	return g.position
}

func (g *GeoAnchor) SourceID() string {
	return g.sourceID
}

func (g *GeoAnchor) updatePosition(cameraTransform math32.Matrix4, device geo.Coordinate) {
	g.position = ComputePosition(cameraTransform, device, g.anchor)
}
