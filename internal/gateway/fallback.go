package gateway

import (
	"time"

	"github.com/metgo3d/fieldsync/internal/models"
)

// Deterministic placeholder payloads for the resilient read endpoints.
// Served only when both the network and the cache come up empty, so a
// fresh install still renders something meaningful offline.

func fallbackDashboard() models.DashboardSnapshot {
	return models.DashboardSnapshot{
		Weather: models.WeatherSummary{
			Temperature:   22.5,
			Humidity:      68,
			Precipitation: 0,
			WindSpeed:     12.3,
			Pressure:      1013.2,
			Cloudiness:    25,
			UVIndex:       7,
		},
		Irrigation: models.IrrigationSummary{
			ActiveSectors:  3,
			NextIrrigation: "2 horas",
			WaterLevel:     85,
			TotalWaterUsed: 1250,
			Efficiency:     92,
		},
		Alerts: []models.Alert{
			{ID: "fallback-1", Type: "warning", Message: "Temperatura alta prevista para mañana"},
			{ID: "fallback-2", Type: "info", Message: "Riego programado para las 6:00 AM"},
		},
	}
}

func fallbackWeather() models.WeatherReport {
	return models.WeatherReport{
		Station:       "quillota_centro",
		Temperature:   models.TemperatureRange{Current: 22.5, Max: 28.3, Min: 16.2},
		Humidity:      68,
		Precipitation: 0,
		Wind:          models.Wind{Speed: 12.3, Direction: 180},
		Pressure:      1013.2,
		Cloudiness:    25,
		UVIndex:       7,
	}
}

func fallbackIrrigation() models.IrrigationStatus {
	now := time.Now()
	return models.IrrigationStatus{
		Sectors: []models.IrrigationSector{
			{ID: 1, Name: "Sector Norte - Paltos", Active: true, WaterFlow: 45.2, Duration: 30, NextSchedule: now.Add(2 * time.Hour)},
			{ID: 2, Name: "Sector Sur - Uvas", Active: false, WaterFlow: 0, Duration: 0, NextSchedule: now.Add(6 * time.Hour)},
			{ID: 3, Name: "Sector Este - Cítricos", Active: true, WaterFlow: 38.7, Duration: 45, NextSchedule: now.Add(4 * time.Hour)},
		},
		WaterLevel:     85,
		TotalWaterUsed: 1250,
		Efficiency:     92,
		NextIrrigation: now.Add(2 * time.Hour),
	}
}
