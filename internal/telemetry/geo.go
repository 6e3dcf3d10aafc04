package telemetry

import "math"

const earthRadiusKm = 6371

// Locator computes distances relative to the configured home coordinate.
type Locator struct {
	homeLat float64
	homeLon float64
}

// NewLocator creates a locator for the given home coordinate.
func NewLocator(lat, lon float64) *Locator {
	return &Locator{homeLat: lat, homeLon: lon}
}

// DistanceFromHome returns the great-circle distance in kilometers between the
// reading's coordinates and home, rounded to 3 decimal places. It returns 0
// when either coordinate is absent or out of range; it never fails.
func (l *Locator) DistanceFromHome(lat, lon *float64) float64 {
	if lat == nil || lon == nil {
		return 0
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return 0
	}
	return Haversine(l.homeLat, l.homeLon, *lat, *lon)
}

// Haversine returns the great-circle distance in kilometers between two
// coordinates, rounded to 3 decimal places.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(earthRadiusKm*c*1000) / 1000
}
