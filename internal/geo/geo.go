// Geometry primitives shared by the simulation, coverage, and batch engines.
package geo

import (
	"math"
	"math/rand"
)

const earthRadiusM = 6371000.0

// metersPerDegree approximates one degree of latitude at the surface.
const metersPerDegree = 111000.0

// Position holds latitude and longitude in decimal degrees.
type Position struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Ring is a closed ordered list of polygon vertices in (lng, lat) order,
// matching GeoJSON coordinate layout.
type Ring [][2]float64

// DistanceMeters returns the haversine distance between two points.
func DistanceMeters(a, b Position) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusM * c
}

// PointInRing reports whether p falls inside a single ring, using the
// ray-casting parity test.
func PointInRing(p Position, ring Ring) bool {
	inside := false
	n := len(ring)
	if n < 3 {
		return false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lng < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInRings applies the parity test over every ring of a polygon or
// multipolygon. Each containing ring flips membership, so a ring nested
// inside another acts as a hole.
func PointInRings(p Position, rings []Ring) bool {
	inside := false
	for _, ring := range rings {
		if PointInRing(p, ring) {
			inside = !inside
		}
	}
	return inside
}

// PointToSegmentMeters returns the minimum distance from p to the segment
// a-b. The projection is done in planar degree space and the closest point
// is then measured with the haversine formula, which is adequate at the
// regional scales the simulation operates on.
func PointToSegmentMeters(p, a, b Position) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return DistanceMeters(p, a)
	}
	t := ((p.Lng-a.Lng)*dx + (p.Lat-a.Lat)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := Position{Lat: a.Lat + t*dy, Lng: a.Lng + t*dx}
	return DistanceMeters(p, closest)
}

// BoundingBox is an axis-aligned lat/lng rectangle.
type BoundingBox struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
}

// Clamp returns p constrained to the box.
func (b BoundingBox) Clamp(p Position) Position {
	if p.Lat < b.MinLat {
		p.Lat = b.MinLat
	} else if p.Lat > b.MaxLat {
		p.Lat = b.MaxLat
	}
	if p.Lng < b.MinLng {
		p.Lng = b.MinLng
	} else if p.Lng > b.MaxLng {
		p.Lng = b.MaxLng
	}
	return p
}

// Contains reports whether p lies within the box.
func (b BoundingBox) Contains(p Position) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// RandomIn returns a uniformly random position inside the box.
func (b BoundingBox) RandomIn(r *rand.Rand) Position {
	return Position{
		Lat: b.MinLat + r.Float64()*(b.MaxLat-b.MinLat),
		Lng: b.MinLng + r.Float64()*(b.MaxLng-b.MinLng),
	}
}

// RandomEdge picks one of the four box edges, offsets it outward by
// offsetDeg degrees, and returns a uniformly random point along it. Used
// to model threats crossing the region border.
func (b BoundingBox) RandomEdge(r *rand.Rand, offsetDeg float64) Position {
	switch r.Intn(4) {
	case 0: // north
		return Position{Lat: b.MaxLat + offsetDeg, Lng: b.MinLng + r.Float64()*(b.MaxLng-b.MinLng)}
	case 1: // south
		return Position{Lat: b.MinLat - offsetDeg, Lng: b.MinLng + r.Float64()*(b.MaxLng-b.MinLng)}
	case 2: // east
		return Position{Lat: b.MinLat + r.Float64()*(b.MaxLat-b.MinLat), Lng: b.MaxLng + offsetDeg}
	default: // west
		return Position{Lat: b.MinLat + r.Float64()*(b.MaxLat-b.MinLat), Lng: b.MinLng - offsetDeg}
	}
}

// OffsetMeters converts a meter displacement into a degree displacement at
// the given latitude and applies it to p.
func OffsetMeters(p Position, northM, eastM float64) Position {
	return Position{
		Lat: p.Lat + northM/metersPerDegree,
		Lng: p.Lng + eastM/(metersPerDegree*math.Cos(p.Lat*math.Pi/180)),
	}
}
