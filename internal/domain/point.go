package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// earthRadiusMeters is the mean Earth radius used for geodesic distances.
const earthRadiusMeters = 6371000.0

// metersPerDegreeLat approximates one degree of latitude anywhere on Earth.
const metersPerDegreeLat = 111320.0

// Point is a geographic coordinate. It serializes as a GeoJSON point,
// i.e. an ordered (longitude, latitude) pair.
type Point struct {
	Longitude float64
	Latitude  float64
}

type geoJSONPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// MarshalJSON renders the point as {"type":"Point","coordinates":[lng,lat]}.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSONPoint{
		Type:        "Point",
		Coordinates: [2]float64{p.Longitude, p.Latitude},
	})
}

// UnmarshalJSON accepts the GeoJSON point shape.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw geoJSONPoint
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Longitude = raw.Coordinates[0]
	p.Latitude = raw.Coordinates[1]
	return nil
}

// Validate checks coordinate ranges.
func (p Point) Validate() error {
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", p.Longitude)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", p.Latitude)
	}
	return nil
}

// DistanceMeters returns the haversine great-circle distance to other.
func (p Point) DistanceMeters(other Point) float64 {
	lat1 := p.Latitude * math.Pi / 180
	lat2 := other.Latitude * math.Pi / 180
	dLat := (other.Latitude - p.Latitude) * math.Pi / 180
	dLng := (other.Longitude - p.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

// DegreeBox returns half-widths in degrees of a bounding box that encloses
// a circle of radiusMeters around the point. It is a prefilter only; the
// haversine distance remains the acceptance test.
func (p Point) DegreeBox(radiusMeters float64) (dLat, dLng float64) {
	dLat = radiusMeters / metersPerDegreeLat
	cos := math.Cos(p.Latitude * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01
	}
	dLng = radiusMeters / (metersPerDegreeLat * cos)
	return dLat, dLng
}
