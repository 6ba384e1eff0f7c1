// Package geo resolves device positions against the static station table:
// great-circle distances, nearest-station lookup, and zone membership.
// Everything here is a pure function; safe to call on every render.
package geo

import (
	"fmt"
	"math"

	"github.com/metgo3d/fieldsync/internal/models"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Point is a position in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Bounds is an inclusive latitude/longitude rectangle.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// QuillotaValley approximates the agricultural valley the stations cover.
var QuillotaValley = Bounds{
	North: -32.7,
	South: -33.0,
	East:  -71.1,
	West:  -71.3,
}

// Zone describes a position relative to the reference region and stations.
type Zone struct {
	InRegion       bool
	Nearest        Station
	DistanceKm     float64
	ZoneType       string
	Recommendation string
}

// DistanceKm returns the great-circle (haversine) distance between two
// points. Coincident points yield exactly 0.
func DistanceKm(a, b Point) float64 {
	if a == b {
		return 0
	}

	dLat := deg2rad(b.Latitude - a.Latitude)
	dLon := deg2rad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Latitude))*math.Cos(deg2rad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// Clamp against rounding drift for near-antipodal points.
	if h > 1 {
		h = 1
	}

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// NearestStation returns the station closest to fix, or the default
// station when fix is nil. Callers must not treat a missing fix as an
// error; the default keeps downstream lookups working.
func NearestStation(fix *models.GeoFix) Station {
	s, _ := NearestStationIn(Stations, fix)
	return s
}

// NearestStationIn scans the given table and returns the closest station
// together with the distance in kilometers. Exact distance ties resolve to
// the earlier entry. A nil fix returns the table's first station with a
// zero distance.
func NearestStationIn(table []Station, fix *models.GeoFix) (Station, float64) {
	if fix == nil {
		return table[0], 0
	}

	from := Point{Latitude: fix.Latitude, Longitude: fix.Longitude}

	nearest := table[0]
	best := DistanceKm(from, Point{Latitude: table[0].Latitude, Longitude: table[0].Longitude})

	for _, s := range table[1:] {
		d := DistanceKm(from, Point{Latitude: s.Latitude, Longitude: s.Longitude})
		if d < best {
			best = d
			nearest = s
		}
	}

	return nearest, best
}

// InRegion reports whether fix lies inside bounds, edges included.
// A nil fix is never inside.
func InRegion(fix *models.GeoFix, bounds Bounds) bool {
	if fix == nil {
		return false
	}
	return fix.Latitude >= bounds.South && fix.Latitude <= bounds.North &&
		fix.Longitude >= bounds.West && fix.Longitude <= bounds.East
}

// ZoneInfo composes region membership and nearest-station resolution for
// the current position.
func ZoneInfo(fix *models.GeoFix) Zone {
	nearest, distance := NearestStationIn(Stations, fix)
	inRegion := InRegion(fix, QuillotaValley)

	zoneType := "Fuera del Valle"
	recommendation := "Consulte datos meteorológicos de la estación más cercana"
	if inRegion {
		zoneType = "Valle de Quillota"
		recommendation = "Ubicación óptima para agricultura mediterránea"
	}

	return Zone{
		InRegion:       inRegion,
		Nearest:        nearest,
		DistanceKm:     distance,
		ZoneType:       zoneType,
		Recommendation: recommendation,
	}
}

// FormatCoordinates renders a fix for display.
func FormatCoordinates(fix *models.GeoFix) string {
	if fix == nil {
		return "ubicación no disponible"
	}
	return fmt.Sprintf("%.6f, %.6f", fix.Latitude, fix.Longitude)
}

// FormatDistance renders a distance in meters below 1 km, kilometers above.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%.0f m", km*1000)
	}
	return fmt.Sprintf("%.2f km", km)
}
