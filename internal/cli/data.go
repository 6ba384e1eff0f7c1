package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/geo"
)

// dashboard prints the combined snapshot. The gateway already degrades to
// cached or placeholder data, so this never fails for connectivity
// reasons alone.
func (a *App) dashboard(ctx context.Context) {
	d, err := a.gateway.Dashboard(ctx)
	if err != nil {
		a.reportReadError(ctx, "dashboard", err)
		return
	}

	fmt.Println("-- Weather --")
	fmt.Printf("Temperature:   %.1f C\n", d.Weather.Temperature)
	fmt.Printf("Humidity:      %.0f %%\n", d.Weather.Humidity)
	fmt.Printf("Wind:          %.1f km/h\n", d.Weather.WindSpeed)
	fmt.Printf("Precipitation: %.1f mm\n", d.Weather.Precipitation)

	fmt.Println("-- Irrigation --")
	fmt.Printf("Active sectors: %d\n", d.Irrigation.ActiveSectors)
	fmt.Printf("Water level:    %.0f %%\n", d.Irrigation.WaterLevel)
	fmt.Printf("Next run:       %s\n", d.Irrigation.NextIrrigation)

	if len(d.Alerts) > 0 {
		fmt.Println("-- Alerts --")
		for _, al := range d.Alerts {
			fmt.Printf("[%s] %s\n", al.Type, al.Message)
		}
	}
}

// weather prints current conditions. With a station argument it queries
// that station directly and surfaces failures; without one it uses the
// resilient current-conditions endpoint.
func (a *App) weather(ctx context.Context, stationID string) {
	if stationID != "" {
		report, err := a.gateway.StationWeather(ctx, stationID)
		if err != nil {
			a.reportReadError(ctx, "weather", err)
			return
		}
		printWeather(report.Station, report.Temperature.Current, report.Humidity, report.Wind.Speed, report.Precipitation)
		return
	}

	report, err := a.gateway.Weather(ctx)
	if err != nil {
		a.reportReadError(ctx, "weather", err)
		return
	}
	printWeather(report.Station, report.Temperature.Current, report.Humidity, report.Wind.Speed, report.Precipitation)
}

func printWeather(station string, temp, humidity, wind, precip float64) {
	fmt.Printf("Station:       %s\n", station)
	fmt.Printf("Temperature:   %.1f C\n", temp)
	fmt.Printf("Humidity:      %.0f %%\n", humidity)
	fmt.Printf("Wind:          %.1f km/h\n", wind)
	fmt.Printf("Precipitation: %.1f mm\n", precip)
}

// irrigation prints per-sector status.
func (a *App) irrigation(ctx context.Context) {
	st, err := a.gateway.Irrigation(ctx)
	if err != nil {
		a.reportReadError(ctx, "irrigation", err)
		return
	}

	for _, s := range st.Sectors {
		state := "idle"
		if s.Active {
			state = "active"
		}
		fmt.Printf("%-25s %-7s flow %.1f l/min\n", s.Name, state, s.WaterFlow)
	}
	fmt.Printf("Water level: %.0f %%, efficiency %.0f %%\n", st.WaterLevel, st.Efficiency)
}

// zone resolves the device position against the station table. This is
// fully local and works without any network.
func (a *App) zone(ctx context.Context) {
	fix, ok := a.tracker.CurrentFix(ctx)
	if !ok {
		fmt.Println("Location unavailable.")
		return
	}

	z := geo.ZoneInfo(&fix)
	fmt.Printf("Position:  %s\n", geo.FormatCoordinates(&fix))
	fmt.Printf("Zone:      %s\n", z.ZoneType)
	fmt.Printf("Station:   %s (%s away)\n", z.Nearest.Name, geo.FormatDistance(z.DistanceKm))
	fmt.Printf("Crops:     %s, soil %s\n", z.Nearest.CropProfile, z.Nearest.SoilProfile)
	fmt.Println(z.Recommendation)
}

// alerts lists active alerts and mirrors them into local notifications so
// they remain visible offline.
func (a *App) alerts(ctx context.Context) {
	list, err := a.gateway.Alerts(ctx)
	if err != nil {
		notifications, nerr := a.store.Notifications(ctx)
		if nerr != nil || len(notifications) == 0 {
			a.reportReadError(ctx, "alerts", err)
			return
		}
		fmt.Println("Showing stored notifications (offline):")
		for _, n := range notifications {
			fmt.Printf("[%s] %s\n", n.Type, n.Message)
		}
		return
	}

	if len(list) == 0 {
		fmt.Println("No active alerts.")
		return
	}
	for _, al := range list {
		fmt.Printf("[%s] %s\n", al.Type, al.Message)
		if err := a.store.AppendNotification(ctx, al); err != nil {
			a.log.Warn(ctx, "failed to store notification", "err", err)
		}
	}
}

func (a *App) reportReadError(ctx context.Context, what string, err error) {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		fmt.Println("Session expired, please log in again.")
	case errors.Is(err, common.ErrOffline):
		fmt.Printf("Cannot load %s while offline.\n", what)
	default:
		fmt.Printf("Could not load %s.\n", what)
	}
	a.log.Warn(ctx, "read failed", "what", what, "err", err)
}
