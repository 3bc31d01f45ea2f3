package geo

import (
	"github.com/golang/geo/s2"
)

func (c Coordinate) toS2Point() s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// GreatCircleDistance returns the distance in meters between a and b on the spherical earth.
// It shares the earth model of BearingTo.
func GreatCircleDistance(a, b Coordinate) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
	return angle.Radians() * EarthRadiusMeters
}

func ProjectPointToLineCoord(pointA Coordinate, pointB Coordinate,
	snap Coordinate) Coordinate {
	projection := s2.Project(snap.toS2Point(), pointA.toS2Point(), pointB.toS2Point())
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// return in meter
func PointLinePerpendicularDistance(pointA Coordinate, pointB Coordinate,
	snap Coordinate) float64 {
	angle := s2.DistanceFromSegment(snap.toS2Point(), pointA.toS2Point(), pointB.toS2Point())
	return angle.Radians() * EarthRadiusMeters
}
