package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/models"
	"github.com/metgo3d/fieldsync/internal/netx"
	"github.com/metgo3d/fieldsync/internal/store"
)

// resilientGet serves the three read endpoints that must keep working
// offline: fresh data when the network allows, then last-known-good from
// the cache, then a deterministic placeholder. Auth failures are fatal
// and never masked by fallback data.
func resilientGet[T any](ctx context.Context, g *Gateway, path, cacheKey string, fallback func() T) (T, error) {
	var v T
	err := g.do(ctx, http.MethodGet, path, nil, &v)
	if err == nil {
		if cerr := g.cache.Set(ctx, cacheKey, v, g.cacheTTL); cerr != nil {
			g.log.Warn(ctx, "write-through cache failed", "key", cacheKey, "err", cerr)
		}
		return v, nil
	}
	if errors.Is(err, common.ErrUnauthenticated) {
		return v, err
	}

	g.log.Warn(ctx, "falling back to cached data", "path", path, "err", err)
	if found, _ := g.cache.Get(ctx, cacheKey, &v); found {
		return v, nil
	}
	return fallback(), nil
}

// Dashboard returns the dashboard snapshot, degrading to cached or
// placeholder data when offline.
func (g *Gateway) Dashboard(ctx context.Context) (models.DashboardSnapshot, error) {
	return resilientGet(ctx, g, "/dashboard/data", store.KeyCacheDashboard, fallbackDashboard)
}

// Weather returns the current-conditions report for the nearest station,
// degrading to cached or placeholder data when offline.
func (g *Gateway) Weather(ctx context.Context) (models.WeatherReport, error) {
	return resilientGet(ctx, g, "/weather/current", store.KeyCacheWeather, fallbackWeather)
}

// Irrigation returns the irrigation status, degrading to cached or
// placeholder data when offline.
func (g *Gateway) Irrigation(ctx context.Context) (models.IrrigationStatus, error) {
	return resilientGet(ctx, g, "/irrigation/data", store.KeyCacheIrrigation, fallbackIrrigation)
}

// StationWeather returns the report for a specific station. Not on the
// resilient list: failures surface to the caller.
func (g *Gateway) StationWeather(ctx context.Context, stationID string) (models.WeatherReport, error) {
	var report models.WeatherReport
	err := g.do(ctx, http.MethodGet, "/weather/"+url.PathEscape(stationID), nil, &report)
	return report, err
}

// Reports lists generated reports, optionally filtered by type and date
// range. Failures surface to the caller.
func (g *Gateway) Reports(ctx context.Context, reportType string, from, to time.Time) ([]models.Report, error) {
	q := url.Values{}
	if reportType != "" {
		q.Set("type", reportType)
	}
	if !from.IsZero() {
		q.Set("startDate", from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		q.Set("endDate", to.Format(time.RFC3339))
	}

	path := "/reports"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var reports []models.Report
	err := g.do(ctx, http.MethodGet, path, nil, &reports)
	return reports, err
}

// Alerts lists active alerts. Failures surface to the caller.
func (g *Gateway) Alerts(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	err := g.do(ctx, http.MethodGet, "/alerts", nil, &alerts)
	return alerts, err
}

// UploadPhoto sends a crop photo as multipart: the binary and a JSON
// metadata part. The endpoint deduplicates by metadata ID, so replaying
// the same upload is safe. On failure the caller decides whether to
// enqueue the photo for a later drain.
func (g *Gateway) UploadPhoto(ctx context.Context, meta models.PhotoMeta, photo io.Reader) error {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Device.DeviceID == "" {
		meta.Device = g.device
	}

	metaJSON, err := marshalMeta(meta)
	if err != nil {
		return err
	}

	if !g.checker.Online(ctx) {
		return common.ErrOffline
	}

	req, err := netx.NewMultipartRequest(ctx, g.base+"/photos/upload",
		"photo", fmt.Sprintf("crop_photo_%s.jpg", meta.ID), photo,
		"metadata", metaJSON)
	if err != nil {
		return fmt.Errorf("%w: build upload: %v", common.ErrEncoding, err)
	}

	return g.roundTrip(ctx, req, nil)
}

type locationUpdate struct {
	models.GeoFix
	Device models.DeviceInfo `json:"deviceInfo"`
}

// SendLocation posts a position sample. On failure the caller decides
// whether to enqueue the ping.
func (g *Gateway) SendLocation(ctx context.Context, fix models.GeoFix) error {
	if fix.Timestamp.IsZero() {
		fix.Timestamp = time.Now()
	}
	return g.do(ctx, http.MethodPost, "/location/update",
		locationUpdate{GeoFix: fix, Device: g.device}, nil)
}
