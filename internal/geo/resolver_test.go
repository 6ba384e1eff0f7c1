package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metgo3d/fieldsync/internal/models"
)

func TestDistanceKm_CoincidentPointsAreZero(t *testing.T) {
	p := Point{Latitude: -32.8833, Longitude: -71.25}
	assert.Zero(t, DistanceKm(p, p))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Point{Latitude: -32.8833, Longitude: -71.25}
	b := Point{Latitude: -32.9167, Longitude: -71.2333}

	assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-12)
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Quillota Centro to La Cruz is roughly 4 km.
	a := Point{Latitude: -32.8833, Longitude: -71.25}
	b := Point{Latitude: -32.9167, Longitude: -71.2333}

	d := DistanceKm(a, b)
	assert.Greater(t, d, 3.0)
	assert.Less(t, d, 5.0)
}

func TestDistanceKm_NonNegativeAndTriangleLike(t *testing.T) {
	a := Point{Latitude: -32.88, Longitude: -71.25}
	b := Point{Latitude: -32.80, Longitude: -71.20}
	c := Point{Latitude: -33.00, Longitude: -71.10}

	ab, bc, ac := DistanceKm(a, b), DistanceKm(b, c), DistanceKm(a, c)
	assert.GreaterOrEqual(t, ab, 0.0)
	assert.GreaterOrEqual(t, bc, 0.0)
	assert.LessOrEqual(t, ac, ab+bc+1e-9)
}

func TestNearestStation_AtStationCoordinates(t *testing.T) {
	for _, s := range Stations {
		fix := &models.GeoFix{Latitude: s.Latitude, Longitude: s.Longitude}
		got, d := NearestStationIn(Stations, fix)
		assert.Equal(t, s.ID, got.ID)
		assert.Zero(t, d)
	}
}

func TestNearestStation_NilFixReturnsDefault(t *testing.T) {
	s := NearestStation(nil)
	assert.Equal(t, DefaultStation().ID, s.ID)

	got, d := NearestStationIn(Stations, nil)
	assert.Equal(t, Stations[0].ID, got.ID)
	assert.Zero(t, d)
}

func TestNearestStationIn_TieResolvesToEarlierEntry(t *testing.T) {
	table := []Station{
		{ID: "first", Latitude: -32.9, Longitude: -71.2},
		{ID: "twin", Latitude: -32.9, Longitude: -71.2},
	}
	fix := &models.GeoFix{Latitude: -32.95, Longitude: -71.25}

	got, _ := NearestStationIn(table, fix)
	assert.Equal(t, "first", got.ID)
}

func TestNearestStation_PicksCloserOfTwo(t *testing.T) {
	// a point right next to Hijuelas
	fix := &models.GeoFix{Latitude: -32.801, Longitude: -71.201}
	got, d := NearestStationIn(Stations, fix)

	assert.Equal(t, "hijuelas", got.ID)
	assert.Less(t, d, 1.0)
}

func TestInRegion(t *testing.T) {
	tests := []struct {
		name string
		fix  *models.GeoFix
		want bool
	}{
		{"nil fix", nil, false},
		{"inside", &models.GeoFix{Latitude: -32.88, Longitude: -71.25}, true},
		{"north edge", &models.GeoFix{Latitude: -32.7, Longitude: -71.2}, true},
		{"south edge", &models.GeoFix{Latitude: -33.0, Longitude: -71.2}, true},
		{"east edge", &models.GeoFix{Latitude: -32.8, Longitude: -71.1}, true},
		{"west edge", &models.GeoFix{Latitude: -32.8, Longitude: -71.3}, true},
		{"north of valley", &models.GeoFix{Latitude: -32.6, Longitude: -71.2}, false},
		{"west of valley", &models.GeoFix{Latitude: -32.8, Longitude: -71.4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InRegion(tt.fix, QuillotaValley))
		})
	}
}

func TestZoneInfo_InsideValley(t *testing.T) {
	fix := &models.GeoFix{Latitude: -32.8833, Longitude: -71.25}

	z := ZoneInfo(fix)
	require.True(t, z.InRegion)
	assert.Equal(t, "Valle de Quillota", z.ZoneType)
	assert.Equal(t, "quillota_centro", z.Nearest.ID)
	assert.Zero(t, z.DistanceKm)
}

func TestZoneInfo_OutsideValley(t *testing.T) {
	fix := &models.GeoFix{Latitude: -33.45, Longitude: -70.65} // Santiago

	z := ZoneInfo(fix)
	require.False(t, z.InRegion)
	assert.Equal(t, "Fuera del Valle", z.ZoneType)
	assert.NotEmpty(t, z.Nearest.ID)
	assert.Greater(t, z.DistanceKm, 10.0)
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "ubicación no disponible", FormatCoordinates(nil))
	assert.Equal(t, "-32.883300, -71.250000",
		FormatCoordinates(&models.GeoFix{Latitude: -32.8833, Longitude: -71.25}))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "500 m", FormatDistance(0.5))
	assert.Equal(t, "1.25 km", FormatDistance(1.25))
}
