package domain

import "fmt"

// Location is where alerts are reported for. Coordinates are only present
// when geocoding resolved the name.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
	Resolved  bool
}

// Coordinates formats the resolved position, or "" when unresolved.
func (l Location) Coordinates() string {
	if !l.Resolved {
		return ""
	}
	return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
}
