package geo

import (
	"math"

	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
)

/*
BearingTo. initial great-circle bearing (degree, clockwise from true north, in [0,360)) from p1 to p2.
identical points have no defined heading; 0 is returned for them.
https://www.movable-type.co.uk/scripts/latlong.html
*/
func BearingTo(p1Lat, p1Lon, p2Lat, p2Lon float64) float64 {
	if p1Lat == p2Lat && p1Lon == p2Lon {
		return 0
	}

	dLon := util.DegreeToRadians(p2Lon - p1Lon)

	lat1 := util.DegreeToRadians(p1Lat)
	lat2 := util.DegreeToRadians(p2Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360.0)

	return brng
}

// Bearing is BearingTo between two coordinates.
func Bearing(from, to Coordinate) float64 {
	return BearingTo(from.Lat, from.Lon, to.Lat, to.Lon)
}
