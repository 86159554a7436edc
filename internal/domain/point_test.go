package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPointJSONRoundTrip(t *testing.T) {
	p := Point{Longitude: -74.0060, Latitude: 40.7128}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Coordinates must be an ordered (longitude, latitude) pair.
	want := `{"type":"Point","coordinates":[-74.006,40.7128]}`
	if string(raw) != want {
		t.Errorf("marshal = %s, want %s", raw, want)
	}

	var back Point
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(p, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPointValidate(t *testing.T) {
	valid := []Point{
		{0, 0},
		{-180, -90},
		{180, 90},
		{-74.0060, 40.7128},
	}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, want nil", p, err)
		}
	}

	invalid := []Point{
		{-180.1, 0},
		{180.1, 0},
		{0, 90.1},
		{0, -90.1},
	}
	for _, p := range invalid {
		if err := p.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", p)
		}
	}
}

func TestDistanceMeters(t *testing.T) {
	nyc := Point{Longitude: -74.0060, Latitude: 40.7128}

	if got := nyc.DistanceMeters(nyc); got != 0 {
		t.Errorf("distance to self = %v, want 0", got)
	}

	// ~1.4m offset, well inside the dedup radius.
	near := Point{Longitude: -74.00601, Latitude: 40.71281}
	if got := nyc.DistanceMeters(near); got > 10 {
		t.Errorf("near point distance = %vm, want < 10m", got)
	}

	// One thousandth of a degree of latitude is ~111m.
	far := Point{Longitude: -74.0060, Latitude: 40.7138}
	got := nyc.DistanceMeters(far)
	if math.Abs(got-111.3) > 2 {
		t.Errorf("far point distance = %vm, want ~111m", got)
	}

	if got, reverse := nyc.DistanceMeters(far), far.DistanceMeters(nyc); math.Abs(got-reverse) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", got, reverse)
	}
}

func TestDegreeBoxEnclosesRadius(t *testing.T) {
	nyc := Point{Longitude: -74.0060, Latitude: 40.7128}
	dLat, dLng := nyc.DegreeBox(10)

	// Box corners must all be at least 10m away, otherwise the prefilter
	// could exclude true matches.
	corners := []Point{
		{nyc.Longitude - dLng, nyc.Latitude - dLat},
		{nyc.Longitude - dLng, nyc.Latitude + dLat},
		{nyc.Longitude + dLng, nyc.Latitude - dLat},
		{nyc.Longitude + dLng, nyc.Latitude + dLat},
	}
	for _, corner := range corners {
		if dist := nyc.DistanceMeters(corner); dist < 10 {
			t.Errorf("box corner %+v only %vm away, box too tight", corner, dist)
		}
	}
}
