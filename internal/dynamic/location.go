package dynamic

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Location doubles stress while the user is within Radius meters of a fixed
// point. An unavailable position reads as "outside the radius": the render
// degrades to the unmodified stress instead of failing.
type Location struct {
	Lat    float64
	Lon    float64
	Radius float64

	provider LocationProvider
}

func NewLocation(lat, lon, radius float64, provider LocationProvider) *Location {
	return &Location{Lat: lat, Lon: lon, Radius: radius, provider: provider}
}

func (d *Location) Apply(_ time.Time, baseStress float64, _ TaskContext, _ time.Time) (float64, error) {
	if d.provider == nil {
		return baseStress, nil
	}
	lat, lon, ok := d.provider.Current()
	if !ok {
		return baseStress, nil
	}
	if haversineMeters(lat, lon, d.Lat, d.Lon) <= d.Radius {
		return baseStress * 2, nil
	}
	return baseStress, nil
}

func (d *Location) Token() string {
	return "dynamic-location." + fnum(d.Lat) + "." + fnum(d.Lon) + "." + fnum(d.Radius)
}

var (
	locationPattern = regexp.MustCompile(`^(?:dynamic-)?location\.(-?\d+(?:\.\d+)?)\.(-?\d+(?:\.\d+)?)\.(-?\d+(?:\.\d+)?)$`)
	locationCurrent = regexp.MustCompile(`^(?:dynamic-)?location\.current\.(-?\d+(?:\.\d+)?)$`)
)

func parseLocation(text string, provider LocationProvider) (Dynamic, error) {
	if m := locationCurrent.FindStringSubmatch(text); m != nil {
		// "current" anchors the dynamic at wherever the user is right now.
		if provider == nil {
			return nil, ErrNoLocation
		}
		lat, lon, ok := provider.Current()
		if !ok {
			return nil, ErrNoLocation
		}
		radius, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, err
		}
		return NewLocation(lat, lon, radius, provider), nil
	}

	m := locationPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("not a location dynamic: %q", text)
	}
	var vals [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return NewLocation(vals[0], vals[1], vals[2], provider), nil
}

const earthRadiusMeters = 6371000

func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
