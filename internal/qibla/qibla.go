// Package qibla computes the great-circle initial bearing from a location
// toward the Kaaba.
package qibla

import (
	"math"

	"github.com/golang/geo/s2"
)

// Kaaba coordinates in Mecca.
const (
	KaabaLatitude  = 21.4225
	KaabaLongitude = 39.8262
)

// Bearing returns the initial great-circle bearing from the given point
// toward the Kaaba, in degrees clockwise from true north (0-360). Pure and
// total: at the Kaaba itself the bearing is degenerate and defined as 0.
func Bearing(lat, lon float64) float64 {
	if math.Abs(lat-KaabaLatitude) < 1e-9 && math.Abs(lon-KaabaLongitude) < 1e-9 {
		return 0
	}

	phi := lat * math.Pi / 180
	phiK := KaabaLatitude * math.Pi / 180
	deltaLambda := (KaabaLongitude - lon) * math.Pi / 180

	x := math.Sin(deltaLambda) * math.Cos(phiK)
	y := math.Cos(phi)*math.Sin(phiK) - math.Sin(phi)*math.Cos(phiK)*math.Cos(deltaLambda)
	theta := math.Atan2(x, y)

	return math.Mod(theta*180/math.Pi+360, 360)
}

// RoundedBearing returns the bearing rounded to the nearest whole degree,
// the presentation-boundary precision.
func RoundedBearing(lat, lon float64) int {
	return int(math.Round(Bearing(lat, lon))) % 360
}

const earthRadiusKm = 6371.0088

// DistanceKm returns the great-circle distance from the point to the Kaaba.
func DistanceKm(lat, lon float64) float64 {
	p := s2.LatLngFromDegrees(lat, lon)
	k := s2.LatLngFromDegrees(KaabaLatitude, KaabaLongitude)
	return p.Distance(k).Radians() * earthRadiusKm
}

// compassPoints in 22.5-degree sectors, clockwise from north.
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint names the 16-wind compass sector for a bearing.
func CompassPoint(bearing float64) string {
	idx := int(math.Mod(bearing+11.25, 360) / 22.5)
	return compassPoints[idx%len(compassPoints)]
}
