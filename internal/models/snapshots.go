package models

import "time"

// WeatherSummary is the condensed weather block of a dashboard snapshot.
type WeatherSummary struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	Precipitation float64 `json:"precipitation"`
	WindSpeed     float64 `json:"windSpeed"`
	Pressure      float64 `json:"pressure"`
	Cloudiness    float64 `json:"cloudiness"`
	UVIndex       float64 `json:"uvIndex"`
}

// IrrigationSummary is the condensed irrigation block of a dashboard snapshot.
type IrrigationSummary struct {
	ActiveSectors  int     `json:"activeSectors"`
	NextIrrigation string  `json:"nextIrrigation"`
	WaterLevel     float64 `json:"waterLevel"`
	TotalWaterUsed float64 `json:"totalWaterUsed"`
	Efficiency     float64 `json:"efficiency"`
}

// DashboardSnapshot is the aggregate payload of the dashboard endpoint.
type DashboardSnapshot struct {
	Weather    WeatherSummary    `json:"weather"`
	Irrigation IrrigationSummary `json:"irrigation"`
	Alerts     []Alert           `json:"alerts"`
}

// TemperatureRange groups the current reading with the daily extremes.
type TemperatureRange struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

// Wind is a speed/direction pair; direction is in degrees.
type Wind struct {
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
}

// ForecastDay is one day of the short-range forecast.
type ForecastDay struct {
	Date          time.Time `json:"date"`
	TempMax       float64   `json:"tempMax"`
	TempMin       float64   `json:"tempMin"`
	Precipitation float64   `json:"precipitation"`
	Humidity      float64   `json:"humidity"`
}

// WeatherReport is the full payload of the weather endpoints.
type WeatherReport struct {
	Station       string           `json:"station"`
	Timestamp     time.Time        `json:"timestamp"`
	Temperature   TemperatureRange `json:"temperature"`
	Humidity      float64          `json:"humidity"`
	Precipitation float64          `json:"precipitation"`
	Wind          Wind             `json:"wind"`
	Pressure      float64          `json:"pressure"`
	Cloudiness    float64          `json:"cloudiness"`
	UVIndex       float64          `json:"uvIndex"`
	Forecast      []ForecastDay    `json:"forecast,omitempty"`
}

// IrrigationSector is one irrigation zone with its schedule.
type IrrigationSector struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Active       bool      `json:"active"`
	WaterFlow    float64   `json:"waterFlow"`
	Duration     int       `json:"duration"`
	NextSchedule time.Time `json:"nextSchedule"`
}

// IrrigationStatus is the full payload of the irrigation endpoint.
type IrrigationStatus struct {
	Sectors        []IrrigationSector `json:"sectors"`
	WaterLevel     float64            `json:"waterLevel"`
	TotalWaterUsed float64            `json:"totalWaterUsed"`
	Efficiency     float64            `json:"efficiency"`
	NextIrrigation time.Time          `json:"nextIrrigation"`
}
