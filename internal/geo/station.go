package geo

// Station is a fixed reference point with known coordinates and an
// agronomic profile, used for nearest-neighbor resolution.
type Station struct {
	ID          string
	Name        string
	Latitude    float64
	Longitude   float64
	Altitude    float64
	CropProfile string
	SoilProfile string
}

// Stations is the compiled-in reference table for the Quillota valley.
// Order matters: index 0 is the default station and ties on distance
// resolve to the earlier entry.
var Stations = []Station{
	{
		ID:          "quillota_centro",
		Name:        "Quillota Centro",
		Latitude:    -32.8833,
		Longitude:   -71.2500,
		Altitude:    150,
		CropProfile: "Palto",
		SoilProfile: "Arcilloso limoso",
	},
	{
		ID:          "la_cruz",
		Name:        "La Cruz",
		Latitude:    -32.9167,
		Longitude:   -71.2333,
		Altitude:    200,
		CropProfile: "Uva",
		SoilProfile: "Franco arcilloso",
	},
	{
		ID:          "nogueira",
		Name:        "Nogueira",
		Latitude:    -32.8500,
		Longitude:   -71.2167,
		Altitude:    180,
		CropProfile: "Cítricos",
		SoilProfile: "Franco",
	},
	{
		ID:          "colliguay",
		Name:        "Colliguay",
		Latitude:    -32.9333,
		Longitude:   -71.1833,
		Altitude:    250,
		CropProfile: "Hortalizas",
		SoilProfile: "Franco arenoso",
	},
	{
		ID:          "san_isidro",
		Name:        "San Isidro",
		Latitude:    -32.8667,
		Longitude:   -71.2667,
		Altitude:    120,
		CropProfile: "Cereales",
		SoilProfile: "Arcilloso",
	},
	{
		ID:          "hijuelas",
		Name:        "Hijuelas",
		Latitude:    -32.8000,
		Longitude:   -71.2000,
		Altitude:    220,
		CropProfile: "Palto",
		SoilProfile: "Franco limoso",
	},
}

// DefaultStation is returned when no position is available.
func DefaultStation() Station {
	return Stations[0]
}
