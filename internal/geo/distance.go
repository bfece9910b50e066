package geo

import (
	"math"

	"rideon/internal/types"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points,
// clamped to the range the fare engine is calibrated for: anything
// under 100 m books as half a kilometre, anything over 2000 km is
// treated as the 50 km long-haul cap, and a non-finite result falls
// back to 10 km.
func DistanceKm(a, b types.Point) float64 {
	d := haversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
	switch {
	case math.IsNaN(d) || math.IsInf(d, 0):
		return 10.0
	case d < 0.1:
		return 0.5
	case d > 2000:
		return 50.0
	}
	return math.Round(d*100) / 100
}

// haversineKm returns the great-circle distance in kilometres between
// two points specified in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
