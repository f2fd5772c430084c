package models

import "strconv"

// CoordinatePair is a placeholder geographical point. Both values lie in [0,1).
type CoordinatePair struct {
	Latitude  float64 // Latitude of the point.
	Longitude float64 // Longitude of the point.
}

// String renders the pair as "<latitude>,<longitude>" using the shortest decimal form of each value.
func (c CoordinatePair) String() string {
	return formatCoordinate(c.Latitude) + "," + formatCoordinate(c.Longitude)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
